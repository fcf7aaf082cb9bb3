package plant

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

type SpringMass struct {
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		Mass:      1.0,
		Stiffness: 10.0,
		Damping:   0.5,
	}
}

// Linearize returns the model of a damped mass on a spring driven by an
// external force. The dynamics are already linear, so this is exact.
func (s *SpringMass) Linearize() (a, b *mat.Dense) {
	a = mat.NewDense(2, 2, []float64{
		0, 1,
		-s.Stiffness / s.Mass, -s.Damping / s.Mass,
	})
	b = mat.NewDense(2, 1, []float64{0, 1 / s.Mass})
	return a, b
}

func (s *SpringMass) Plant() *Plant {
	a, b := s.Linearize()
	return &Plant{
		Name:        "springmass",
		Description: "damped mass on a spring with a force input",
		States:      []string{"pos", "vel"},
		Inputs:      []string{"force"},
		A:           a,
		B:           b,
		Dt:          0.05,
		Weights:     linsys.DefaultWeights(2, 1),
		X0:          linsys.State{1, 0},
	}
}
