package riccati

import "errors"

// Solver errors. All are local to a single call; the solver holds no state
// between invocations.
var (
	// ErrDimension indicates inconsistent input matrix shapes. It is
	// detected before any arithmetic and no iteration takes place.
	ErrDimension = errors.New("riccati: matrix dimensions inconsistent")

	// ErrSingular indicates that R or R + BᵀPB could not be inverted.
	ErrSingular = errors.New("riccati: matrix inversion failed")

	// ErrNotFinite indicates NaN or Inf values in the iterate or the gain.
	ErrNotFinite = errors.New("riccati: computation produced non-finite values")

	// ErrNoConvergence indicates the iteration cap was reached before the
	// convergence threshold.
	ErrNoConvergence = errors.New("riccati: no convergence within iteration limit")

	// ErrTolerance indicates a negative or NaN convergence tolerance.
	ErrTolerance = errors.New("riccati: tolerance must be positive")
)
