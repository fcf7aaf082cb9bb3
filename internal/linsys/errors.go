package linsys

import "errors"

// Domain errors for model construction and propagation.
var (
	// ErrDimension indicates inconsistent matrix or vector dimensions.
	ErrDimension = errors.New("linsys: dimension mismatch")

	// ErrSampleTime indicates a zero or negative sample time.
	ErrSampleTime = errors.New("linsys: sample time must be positive")
)
