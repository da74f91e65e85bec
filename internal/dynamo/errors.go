package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a NaN or Inf value in the body state.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownComponent indicates a registry lookup for an unregistered name.
	ErrUnknownComponent = errors.New("dynamo: unknown component")

	// ErrNoData indicates a stored run without samples.
	ErrNoData = errors.New("dynamo: no data")

	// ErrBadSchedule indicates a malformed command schedule.
	ErrBadSchedule = errors.New("dynamo: malformed command schedule")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   Snapshot
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
