package control

import "github.com/san-kum/dlqr/internal/linsys"

// None is the open-loop controller: it always returns zero input.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x linsys.State, t float64) linsys.Control {
	return make(linsys.Control, n.dim)
}
