package linsys

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Weights is the quadratic cost structure of an LQR problem: the stage cost
// is xᵀ·Q·x + 2·xᵀ·N·u + uᵀ·R·u.
type Weights struct {
	Q *mat.Dense // n×n state cost
	R *mat.Dense // m×m control cost
	N *mat.Dense // n×m cross cost
}

// NewWeights validates the cost matrices against each other. A nil cross
// term is replaced with a zero matrix of the right shape.
func NewWeights(q, r, n *mat.Dense) (*Weights, error) {
	qr, qc := q.Dims()
	if qr != qc {
		return nil, fmt.Errorf("%w: Q is %dx%d, want square", ErrDimension, qr, qc)
	}
	rr, rc := r.Dims()
	if rr != rc {
		return nil, fmt.Errorf("%w: R is %dx%d, want square", ErrDimension, rr, rc)
	}
	if n == nil {
		n = mat.NewDense(qr, rr, nil)
	}
	nr, nc := n.Dims()
	if nr != qr || nc != rr {
		return nil, fmt.Errorf("%w: N is %dx%d, want %dx%d", ErrDimension, nr, nc, qr, rr)
	}
	return &Weights{Q: q, R: r, N: n}, nil
}

// Check verifies that the weights fit a system's dimensions.
func (w *Weights) Check(sys *System) error {
	n, m := sys.Dims()
	if qr, _ := w.Q.Dims(); qr != n {
		return fmt.Errorf("%w: Q is %dx%d for a %d-state system", ErrDimension, qr, qr, n)
	}
	if rr, _ := w.R.Dims(); rr != m {
		return fmt.Errorf("%w: R is %dx%d for a %d-input system", ErrDimension, rr, rr, m)
	}
	return nil
}

// DefaultWeights returns identity state and control costs with no cross
// term.
func DefaultWeights(n, m int) *Weights {
	q := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		q.Set(i, i, 1)
	}
	r := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		r.Set(i, i, 1)
	}
	return &Weights{Q: q, R: r, N: mat.NewDense(n, m, nil)}
}

// Scaled returns a copy of the weights with Q and R multiplied by the given
// factors. The cross term is left as is.
func (w *Weights) Scaled(qScale, rScale float64) *Weights {
	var q, r mat.Dense
	q.Scale(qScale, w.Q)
	r.Scale(rScale, w.R)
	return &Weights{Q: &q, R: &r, N: w.N}
}
