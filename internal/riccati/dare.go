package riccati

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTolerance is the convergence threshold used when
	// Options.Tolerance is zero.
	DefaultTolerance = 1e-15

	// DefaultMaxIter is the iteration cap used when Options.MaxIter is
	// zero. The fixed-point recursion converges linearly for stabilizable
	// systems, so exhausting this many passes means the problem is
	// ill-posed rather than slow.
	DefaultMaxIter = 10000
)

// Observer receives per-iteration diagnostics from Solve: the iteration
// number (starting at 1) and the largest absolute element change of the
// cost-to-go iterate.
type Observer func(iteration int, delta float64)

// Options tunes Solve. The zero value selects DefaultTolerance and
// DefaultMaxIter. MaxIter < 0 removes the iteration cap entirely, in which
// case Solve returns only once the iteration converges or produces a
// non-finite value.
type Options struct {
	Tolerance float64
	MaxIter   int
	Observer  Observer
}

// Solution is a converged Riccati solve.
type Solution struct {
	K          *mat.Dense // m×n state-feedback gain, u = -K·x
	P          *mat.Dense // n×n cost-to-go matrix
	Iterations int
	Delta      float64 // element change of P on the final iteration
}

// Solve computes the optimal state-feedback gain for the discrete-time
// system x[k+1] = A·x[k] + B·u[k] under the infinite-horizon stage cost
// xᵀ·Q·x + 2·xᵀ·N·u + uᵀ·R·u.
//
// The discrete algebraic Riccati equation is solved by fixed-point
// iteration. The cross term is folded into modified state and cost matrices
// once up front (Â = A − B·R⁻¹·Nᵀ, Q̂ = Q − N·R⁻¹·Nᵀ), so the loop itself
// carries no N algebra:
//
//	P ← Âᵀ·P·Â − Âᵀ·P·B·(R + Bᵀ·P·B)⁻¹·Bᵀ·P·Â + Q̂
//
// starting from P = Q, until the largest absolute element change drops
// below the tolerance. The gain is then recovered against the original
// system:
//
//	K = (R + Bᵀ·P·B)⁻¹·(Bᵀ·P·A + Nᵀ)
//
// Solve never modifies its inputs and holds no state between calls, so it
// is safe to call concurrently with distinct matrices. R must be
// invertible; Q and R should be symmetric for the problem to be well
// posed, which is not checked. Shape violations return ErrDimension, failed
// inversions ErrSingular, NaN or Inf iterates ErrNotFinite, and hitting the
// iteration cap ErrNoConvergence.
func Solve(a, b, q, r, n mat.Matrix, opts Options) (*Solution, error) {
	if _, _, err := validate(a, b, q, r, n); err != nil {
		return nil, err
	}

	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if tol < 0 || math.IsNaN(tol) {
		return nil, fmt.Errorf("%w: got %v", ErrTolerance, tol)
	}
	maxIter := opts.MaxIter
	if maxIter == 0 {
		maxIter = DefaultMaxIter
	}

	// Fold the cross term in once so the loop needs no N algebra.
	var rInv mat.Dense
	if err := rInv.Inverse(r); err != nil {
		return nil, fmt.Errorf("%w: R: %v", ErrSingular, err)
	}

	var rInvNT mat.Dense // R⁻¹·Nᵀ
	rInvNT.Mul(&rInv, n.T())

	var ahat mat.Dense // Â = A − B·R⁻¹·Nᵀ
	ahat.Mul(b, &rInvNT)
	ahat.Sub(a, &ahat)

	var qhat mat.Dense // Q̂ = Q − N·R⁻¹·Nᵀ
	qhat.Mul(n, &rInvNT)
	qhat.Sub(q, &qhat)

	ahatT := ahat.T()
	bT := b.T()

	p := mat.DenseCopyOf(q)

	var (
		pa    mat.Dense // P·Â
		pb    mat.Dense // P·B
		s     mat.Dense // R + Bᵀ·P·B
		sInv  mat.Dense
		btpa  mat.Dense // Bᵀ·P·Â
		fb    mat.Dense // (R + Bᵀ·P·B)⁻¹·Bᵀ·P·Â
		atpa  mat.Dense // Âᵀ·P·Â
		atpb  mat.Dense // Âᵀ·P·B
		corr  mat.Dense
		next  mat.Dense
		delta mat.Dense
	)

	iter := 0
	finalDelta := 0.0
	for {
		iter++

		pa.Mul(p, &ahat)
		pb.Mul(p, b)

		s.Mul(bT, &pb)
		s.Add(r, &s)
		if err := sInv.Inverse(&s); err != nil {
			return nil, fmt.Errorf("%w: R + B^T·P·B at iteration %d: %v", ErrSingular, iter, err)
		}

		btpa.Mul(bT, &pa)
		fb.Mul(&sInv, &btpa)

		atpa.Mul(ahatT, &pa)
		atpb.Mul(ahatT, &pb)
		corr.Mul(&atpb, &fb)

		next.Sub(&atpa, &corr)
		next.Add(&next, &qhat)

		delta.Sub(&next, p)
		d, finite := maxAbs(&delta)
		if !finite {
			return nil, fmt.Errorf("%w: iterate at iteration %d", ErrNotFinite, iter)
		}
		if opts.Observer != nil {
			opts.Observer(iter, d)
		}

		p.Copy(&next)
		finalDelta = d

		if d < tol {
			break
		}
		if maxIter > 0 && iter >= maxIter {
			return nil, fmt.Errorf("%w: %d iterations, delta %g", ErrNoConvergence, iter, d)
		}
	}

	// The gain law is expressed against the original A and N, not the
	// folded Â and Q̂.
	pb.Mul(p, b)
	s.Mul(bT, &pb)
	s.Add(r, &s)
	if err := sInv.Inverse(&s); err != nil {
		return nil, fmt.Errorf("%w: R + B^T·P·B at gain: %v", ErrSingular, err)
	}

	var pao, rhs, k mat.Dense
	pao.Mul(p, a)
	rhs.Mul(bT, &pao)
	rhs.Add(&rhs, n.T())
	k.Mul(&sInv, &rhs)

	if _, finite := maxAbs(&k); !finite {
		return nil, fmt.Errorf("%w: gain", ErrNotFinite)
	}

	return &Solution{K: &k, P: p, Iterations: iter, Delta: finalDelta}, nil
}

// Gain solves with default options and returns only the feedback gain.
func Gain(a, b, q, r, n mat.Matrix) (*mat.Dense, error) {
	sol, err := Solve(a, b, q, r, n, Options{})
	if err != nil {
		return nil, err
	}
	return sol.K, nil
}

// Residual measures how far p is from satisfying the discrete algebraic
// Riccati equation, as the largest absolute element of f(P) − P where f is
// the Riccati update with the cross term in place:
//
//	f(P) = Aᵀ·P·A − (Aᵀ·P·B + N)·(R + Bᵀ·P·B)⁻¹·(Bᵀ·P·A + Nᵀ) + Q
//
// A converged Solution has a residual within a small multiple of its
// tolerance.
func Residual(a, b, q, r, n, p mat.Matrix) (float64, error) {
	nx, _, err := validate(a, b, q, r, n)
	if err != nil {
		return 0, err
	}
	pr, pc := p.Dims()
	if pr != nx || pc != nx {
		return 0, fmt.Errorf("%w: P is %dx%d, want %dx%d", ErrDimension, pr, pc, nx, nx)
	}

	var pa, pb, s, sInv mat.Dense
	pa.Mul(p, a)
	pb.Mul(p, b)
	s.Mul(b.T(), &pb)
	s.Add(r, &s)
	if err := sInv.Inverse(&s); err != nil {
		return 0, fmt.Errorf("%w: R + B^T·P·B: %v", ErrSingular, err)
	}

	var left, right, corr mat.Dense
	left.Mul(a.T(), &pb)
	left.Add(&left, n)
	right.Mul(b.T(), &pa)
	right.Add(&right, n.T())

	var tmp mat.Dense
	tmp.Mul(&sInv, &right)
	corr.Mul(&left, &tmp)

	var f mat.Dense
	f.Mul(a.T(), &pa)
	f.Sub(&f, &corr)
	f.Add(&f, q)

	var d mat.Dense
	d.Sub(&f, p)
	res, finite := maxAbs(&d)
	if !finite {
		return 0, ErrNotFinite
	}
	return res, nil
}

// validate checks the shape relationships among the five problem matrices
// and returns the state and input dimensions.
func validate(a, b, q, r, n mat.Matrix) (nx, nu int, err error) {
	ar, ac := a.Dims()
	if ar != ac {
		return 0, 0, fmt.Errorf("%w: A is %dx%d, want square", ErrDimension, ar, ac)
	}
	nx = ar
	br, bc := b.Dims()
	if br != nx {
		return 0, 0, fmt.Errorf("%w: B has %d rows, want %d", ErrDimension, br, nx)
	}
	nu = bc
	if qr, qc := q.Dims(); qr != nx || qc != nx {
		return 0, 0, fmt.Errorf("%w: Q is %dx%d, want %dx%d", ErrDimension, qr, qc, nx, nx)
	}
	if rr, rc := r.Dims(); rr != nu || rc != nu {
		return 0, 0, fmt.Errorf("%w: R is %dx%d, want %dx%d", ErrDimension, rr, rc, nu, nu)
	}
	if nr, nc := n.Dims(); nr != nx || nc != nu {
		return 0, 0, fmt.Errorf("%w: N is %dx%d, want %dx%d", ErrDimension, nr, nc, nx, nu)
	}
	return nx, nu, nil
}

// maxAbs returns the largest absolute element of m, reporting false if any
// element is NaN or infinite.
func maxAbs(m *mat.Dense) (float64, bool) {
	rows, cols := m.Dims()
	max := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, false
			}
			if a := math.Abs(v); a > max {
				max = a
			}
		}
	}
	return max, true
}
