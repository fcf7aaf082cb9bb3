package plant

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

// Plant is a named benchmark system ready for gain synthesis: a
// continuous-time linearization with default weights, sample time, and a
// representative initial disturbance.
type Plant struct {
	Name        string
	Description string
	States      []string
	Inputs      []string
	A           *mat.Dense // continuous-time state matrix
	B           *mat.Dense // continuous-time input matrix
	Dt          float64
	Weights     *linsys.Weights
	X0          linsys.State
}

// Discretize converts the plant to a discrete-time system at its default
// sample time.
func (p *Plant) Discretize() (*linsys.System, error) {
	return p.DiscretizeAt(p.Dt)
}

// DiscretizeAt converts the plant to a discrete-time system at the given
// sample time.
func (p *Plant) DiscretizeAt(dt float64) (*linsys.System, error) {
	return linsys.Discretize(p.A, p.B, dt)
}

// Dims returns the state and input dimensions.
func (p *Plant) Dims() (n, m int) {
	n, _ = p.A.Dims()
	_, m = p.B.Dims()
	return n, m
}

var builders = map[string]func() *Plant{
	"cartpole":         func() *Plant { return NewCartPole().Plant() },
	"pendulum":         func() *Plant { return NewPendulum().Plant() },
	"springmass":       func() *Plant { return NewSpringMass().Plant() },
	"doubleintegrator": func() *Plant { return NewDoubleIntegrator().Plant() },
}

// Get builds the named plant with default parameters.
func Get(name string) (*Plant, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown plant: %s", name)
	}
	return build(), nil
}

// Names lists all registered plants in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
