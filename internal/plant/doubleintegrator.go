package plant

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

// DoubleIntegrator is a frictionless point mass under direct acceleration
// control. Its zero-order-hold discretization is exact, which makes it the
// standard check for the conversion path.
type DoubleIntegrator struct{}

func NewDoubleIntegrator() *DoubleIntegrator {
	return &DoubleIntegrator{}
}

func (d *DoubleIntegrator) Linearize() (a, b *mat.Dense) {
	a = mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	b = mat.NewDense(2, 1, []float64{0, 1})
	return a, b
}

func (d *DoubleIntegrator) Plant() *Plant {
	a, b := d.Linearize()
	return &Plant{
		Name:        "doubleintegrator",
		Description: "frictionless point mass under acceleration control",
		States:      []string{"pos", "vel"},
		Inputs:      []string{"accel"},
		A:           a,
		B:           b,
		Dt:          0.1,
		Weights:     linsys.DefaultWeights(2, 1),
		X0:          linsys.State{1, 0},
	}
}
