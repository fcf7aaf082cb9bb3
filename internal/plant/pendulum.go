package plant

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

// Linearize returns the continuous-time model about the upright
// equilibrium, with the angle measured from vertical and a torque input at
// the pivot.
func (p *Pendulum) Linearize() (a, b *mat.Dense) {
	ml2 := p.Mass * p.Length * p.Length
	a = mat.NewDense(2, 2, []float64{
		0, 1,
		p.Gravity / p.Length, -p.Damping / ml2,
	})
	b = mat.NewDense(2, 1, []float64{0, 1 / ml2})
	return a, b
}

func (p *Pendulum) Plant() *Plant {
	a, b := p.Linearize()
	return &Plant{
		Name:        "pendulum",
		Description: "torque-driven pendulum balanced upright",
		States:      []string{"theta", "omega"},
		Inputs:      []string{"torque"},
		A:           a,
		B:           b,
		Dt:          0.01,
		Weights:     linsys.DefaultWeights(2, 1),
		X0:          linsys.State{0.1, 0},
	}
}
