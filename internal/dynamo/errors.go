package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is reported when a step produces NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrNotReady wraps the error a Preparer returned from Ready.
	ErrNotReady = errors.New("dynamo: system not ready")

	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError records where a run stopped. State is the last valid
// state, the one the failing step started from.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
