package deferred

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoMatch is the failure marker produced by Filter when the
	// predicate rejects the value, and by Collect when the partial
	// function is not defined at the value.
	ErrNoMatch = errors.New("deferred: value matched no case")

	// ErrEmptyReduce is the failure marker produced by Reduce when it's
	// called with no cells.
	ErrEmptyReduce = errors.New("deferred: reduce of empty cell list")

	// ErrNilFailure is used in place of a nil error passed to Fail.
	ErrNilFailure = errors.New("deferred: failure with nil error")

	// ErrNilCell is the failure stored when a FlatMap or Traverse
	// callback returns a nil cell.
	ErrNilCell = errors.New("deferred: callback returned a nil cell")
)

// TimeoutError is returned from Await when the cell's deadline passes
// before completion. It's never stored in the cell itself.
type TimeoutError struct {
	// Timeout is the lifetime budget the cell was created with.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deferred: cell not completed within %s", e.Timeout)
}

// PanicError wraps a panic value recovered from a submitted body, a
// combinator callback, or a listener.
type PanicError struct {
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("deferred: recovered panic: %v", e.V)
}

func newPanicError(v any) PanicError {
	if pe, ok := v.(PanicError); ok {
		return pe
	}
	return PanicError{V: v}
}
