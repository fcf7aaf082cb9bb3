package sim

import (
	"errors"
	"fmt"
)

// ErrDiverged indicates the state left the finite range (NaN or Inf
// detected).
var ErrDiverged = errors.New("sim: state diverged (NaN or Inf detected)")

// StepError wraps an error with the step and time at which it occurred.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
