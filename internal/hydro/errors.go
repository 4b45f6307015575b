package hydro

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is the root of every configuration error: an
	// operation ran before the setup it depends on.
	ErrNotConfigured = errors.New("hydro: not configured")

	// ErrNoCoefficients indicates no frequency table or time-domain kernels
	// have been loaded.
	ErrNoCoefficients = fmt.Errorf("%w: no coefficient table loaded", ErrNotConfigured)

	// ErrNoExcitation indicates a wave model was supplied without exciting
	// force coefficients.
	ErrNoExcitation = fmt.Errorf("%w: incident wave set but no excitation coefficients", ErrNotConfigured)

	// ErrBadTimestep indicates a zero or negative timestep.
	ErrBadTimestep = fmt.Errorf("%w: timestep must be positive", ErrNotConfigured)

	// ErrNotPrepared indicates Prepare has not run since the last change
	// to mass properties or coefficients.
	ErrNotPrepared = fmt.Errorf("%w: Prepare has not been called", ErrNotConfigured)

	// ErrKernelsStale indicates the timestep or heading changed after the
	// kernels were discretized. Call Prepare again.
	ErrKernelsStale = fmt.Errorf("%w: kernels are stale for the current timestep", ErrNotConfigured)

	// ErrSingularMass indicates M + A(inf) cannot be inverted.
	ErrSingularMass = fmt.Errorf("%w: mass plus infinite-frequency added mass is singular", ErrNotConfigured)

	// ErrData is the root of every malformed-input error.
	ErrData = errors.New("hydro: invalid coefficient data")

	// ErrSingularResponse indicates the frequency-response system has no
	// unique solution at the requested frequency.
	ErrSingularResponse = errors.New("hydro: singular frequency-response system")

	// ErrStateDim indicates a state vector shorter than 12 components.
	ErrStateDim = errors.New("hydro: state must have 12 components")
)

// DataError reports malformed or inconsistent coefficient data.
type DataError struct {
	Source string
	Line   int
	Reason string
}

func (e *DataError) Error() string {
	switch {
	case e.Source == "":
		return fmt.Sprintf("%v: %s", ErrData, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("%v: %s:%d: %s", ErrData, e.Source, e.Line, e.Reason)
	default:
		return fmt.Sprintf("%v: %s: %s", ErrData, e.Source, e.Reason)
	}
}

func (e *DataError) Unwrap() error {
	return ErrData
}

func dataErrorf(format string, args ...any) error {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}
