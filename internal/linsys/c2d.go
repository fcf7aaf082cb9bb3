package linsys

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Discretize converts a continuous-time model dx/dt = a·x + b·u to a
// zero-order-hold discrete model with sample time dt. It exponentiates the
// augmented block matrix
//
//	[ a·dt  b·dt ]
//	[ 0     0    ]
//
// whose top row blocks are the discrete A and B.
func Discretize(a, b *mat.Dense, dt float64) (*System, error) {
	ar, ac := a.Dims()
	if ar != ac {
		return nil, fmt.Errorf("%w: A is %dx%d, want square", ErrDimension, ar, ac)
	}
	br, bc := b.Dims()
	if br != ar {
		return nil, fmt.Errorf("%w: B has %d rows, want %d", ErrDimension, br, ar)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrSampleTime, dt)
	}

	n, m := ar, bc
	aug := mat.NewDense(n+m, n+m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, a.At(i, j)*dt)
		}
		for j := 0; j < m; j++ {
			aug.Set(i, n+j, b.At(i, j)*dt)
		}
	}

	var exp mat.Dense
	exp.Exp(aug)

	ad := mat.DenseCopyOf(exp.Slice(0, n, 0, n))
	bd := mat.DenseCopyOf(exp.Slice(0, n, n, n+m))
	return &System{A: ad, B: bd}, nil
}
