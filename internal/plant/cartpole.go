package plant

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

type CartPole struct {
	CartMass   float64
	PoleMass   float64
	PoleLength float64
	Gravity    float64
}

func NewCartPole() *CartPole {
	return &CartPole{
		CartMass:   1.0,
		PoleMass:   0.1,
		PoleLength: 1.0,
		Gravity:    9.81,
	}
}

// Linearize returns the continuous-time model about the upright
// equilibrium, with the pole angle measured from vertical and a horizontal
// force on the cart as input. State order is cart position, cart velocity,
// pole angle, pole angular velocity.
func (c *CartPole) Linearize() (a, b *mat.Dense) {
	mc := c.CartMass
	mp := c.PoleMass
	l := c.PoleLength
	g := c.Gravity

	total := mc + mp
	d := l * (4.0/3.0 - mp/total)

	a = mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		0, 0, -mp * l * g / (total * d), 0,
		0, 0, 0, 1,
		0, 0, g / d, 0,
	})
	b = mat.NewDense(4, 1, []float64{
		0,
		(1 + mp*l/(total*d)) / total,
		0,
		-1 / (total * d),
	})
	return a, b
}

// Plant wraps the linearization with the standard balancing cost: a unit
// penalty on the pole angle alone and a heavy penalty on force. The cart
// states carry no cost, so the optimal gain ignores them and regulates only
// the pole.
func (c *CartPole) Plant() *Plant {
	a, b := c.Linearize()
	q := mat.NewDense(4, 4, nil)
	q.Set(2, 2, 1)
	r := mat.NewDense(1, 1, []float64{100})
	return &Plant{
		Name:        "cartpole",
		Description: "inverted pendulum on a cart, balanced upright",
		States:      []string{"pos", "vel", "theta", "omega"},
		Inputs:      []string{"force"},
		A:           a,
		B:           b,
		Dt:          0.02,
		Weights:     &linsys.Weights{Q: q, R: r, N: mat.NewDense(4, 1, nil)},
		X0:          linsys.State{0, 0, 0.05, 0},
	}
}
