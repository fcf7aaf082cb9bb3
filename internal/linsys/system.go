package linsys

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System is a discrete-time linear time-invariant model
// x[k+1] = A·x[k] + B·u[k].
type System struct {
	A *mat.Dense
	B *mat.Dense
}

func NewSystem(a, b *mat.Dense) (*System, error) {
	ar, ac := a.Dims()
	if ar != ac {
		return nil, fmt.Errorf("%w: A is %dx%d, want square", ErrDimension, ar, ac)
	}
	br, _ := b.Dims()
	if br != ar {
		return nil, fmt.Errorf("%w: B has %d rows, want %d", ErrDimension, br, ar)
	}
	return &System{A: a, B: b}, nil
}

// Dims returns the state dimension n and input dimension m.
func (s *System) Dims() (n, m int) {
	n, _ = s.A.Dims()
	_, m = s.B.Dims()
	return n, m
}

// Step propagates the state one sample. A nil or empty u is treated as zero
// input.
func (s *System) Step(x State, u Control) (State, error) {
	n, m := s.Dims()
	if len(x) != n {
		return nil, fmt.Errorf("%w: state has %d elements, want %d", ErrDimension, len(x), n)
	}
	next := make(State, n)
	out := mat.NewVecDense(n, next)
	out.MulVec(s.A, mat.NewVecDense(n, x))
	if len(u) > 0 {
		if len(u) != m {
			return nil, fmt.Errorf("%w: control has %d elements, want %d", ErrDimension, len(u), m)
		}
		var bu mat.VecDense
		bu.MulVec(s.B, mat.NewVecDense(m, u))
		out.AddVec(out, &bu)
	}
	return next, nil
}

// ClosedLoop returns the closed-loop state matrix A − B·K for a feedback
// gain K.
func (s *System) ClosedLoop(k *mat.Dense) (*mat.Dense, error) {
	n, m := s.Dims()
	kr, kc := k.Dims()
	if kr != m || kc != n {
		return nil, fmt.Errorf("%w: gain is %dx%d, want %dx%d", ErrDimension, kr, kc, m, n)
	}
	acl := mat.NewDense(n, n, nil)
	acl.Mul(s.B, k)
	acl.Sub(s.A, acl)
	return acl, nil
}
