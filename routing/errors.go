package routing

import (
	"errors"
	"fmt"
)

// ErrNoPath is matched by every NoPathError via errors.Is.
var ErrNoPath = errors.New("no path")

// LoadError reports a dataset that is missing, unreadable or malformed.
type LoadError struct {
	Source string
	Record int // -1 when the failure is not tied to a single record
	Err    error
}

func (e *LoadError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("load %s: record %d: %v", e.Source, e.Record, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NoPathError means two rooms are not connected. It is an expected outcome
// for disconnected parts of a building, not a failure of the service.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path exists between %s and %s", e.From, e.To)
}

func (e *NoPathError) Is(target error) bool { return target == ErrNoPath }

// InvalidRouteError is returned when the caller breaks the request contract.
// Nothing is computed when it is returned.
type InvalidRouteError struct {
	Reason string
}

func (e *InvalidRouteError) Error() string {
	return "invalid route: " + e.Reason
}

func invalidRoute(format string, args ...interface{}) error {
	return &InvalidRouteError{Reason: fmt.Sprintf(format, args...)}
}
