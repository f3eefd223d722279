package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrIndexOutOfRange indicates a particle index outside [0, N).
	ErrIndexOutOfRange = errors.New("dynamo: particle index out of range")

	// ErrSelfLoop indicates an edge from a particle to itself.
	ErrSelfLoop = errors.New("dynamo: self-loop edges are not allowed")

	// ErrDivisionByZero indicates a zero TimeScale reached the force evaluation.
	ErrDivisionByZero = errors.New("dynamo: division by zero (time scale is 0)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownScheme indicates an integrator name or value outside the closed set.
	ErrUnknownScheme = errors.New("dynamo: unknown integration scheme")

	// ErrEmptySimulation indicates a simulation requested with no particles.
	ErrEmptySimulation = errors.New("dynamo: particle count must be positive")
)

// IndexError reports which index was rejected.
func IndexError(i, n int) error {
	return fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}

// StepError wraps an error with the step it happened on.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
