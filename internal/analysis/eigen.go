// Package analysis inspects linear systems through their eigenvalues:
// discrete-time stability, spectral radius, dominant time constants, and
// quadratic cost evaluation.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

// ErrFactorization is returned when the eigenvalue decomposition does not
// converge.
var ErrFactorization = errors.New("analysis: eigenvalue factorization failed")

// Eigenvalues returns the eigenvalues of a square matrix.
func Eigenvalues(a mat.Matrix) ([]complex128, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("analysis: matrix is %dx%d, want square", r, c)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, ErrFactorization
	}
	return eig.Values(nil), nil
}

// SpectralRadius returns the largest eigenvalue magnitude of a.
func SpectralRadius(a mat.Matrix) (float64, error) {
	vals, err := Eigenvalues(a)
	if err != nil {
		return 0, err
	}
	radius := 0.0
	for _, v := range vals {
		if m := cmplx.Abs(v); m > radius {
			radius = m
		}
	}
	return radius, nil
}

// IsStable reports whether a discrete-time system matrix is asymptotically
// stable, that is, whether every eigenvalue lies strictly inside the unit
// circle.
func IsStable(a mat.Matrix) (bool, error) {
	radius, err := SpectralRadius(a)
	if err != nil {
		return false, err
	}
	return radius < 1, nil
}

// TimeConstant returns the time constant of the slowest decaying mode of a
// discrete-time system matrix sampled every dt seconds. An unstable or
// marginally stable matrix has an infinite time constant.
func TimeConstant(a mat.Matrix, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: sample time %v, want positive", dt)
	}
	radius, err := SpectralRadius(a)
	if err != nil {
		return 0, err
	}
	if radius >= 1 {
		return math.Inf(1), nil
	}
	return -dt / math.Log(radius), nil
}

// CostToGo evaluates the quadratic form x^T·P·x, the infinite-horizon cost
// of starting a regulated system at x.
func CostToGo(p mat.Matrix, x linsys.State) (float64, error) {
	r, c := p.Dims()
	if r != c || r != len(x) {
		return 0, fmt.Errorf("analysis: cost matrix is %dx%d, state has %d entries", r, c, len(x))
	}
	v := mat.NewVecDense(len(x), x)
	var pv mat.VecDense
	pv.MulVec(p, v)
	return mat.Dot(v, &pv), nil
}
