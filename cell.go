// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deferred

import (
	"math"
	"time"
)

// Unbounded is the timeout value that denotes an effectively unbounded
// wait. A negative timeout is treated the same way.
const Unbounded = time.Duration(math.MaxInt64)

// unboundedDeadline is the absolute deadline of cells created with an
// Unbounded (or negative) timeout.
const unboundedDeadline = int64(math.MaxInt64)

// Cell represents some asynchronous work: a single-assignment holder of
// an Outcome, with listener support and deadline-bounded waiting.
//
// The default implementation is the deferred cell created by NewCell or
// Submit. Completed returns the pre-resolved implementation.
//
// It's a private interface, which can only be implemented by the types
// of this module.
type Cell[T any] interface {
	// Complete stores o as the cell's outcome and notifies every
	// registered listener, then returns the cell itself.
	// Only the first Complete call has any effect. Later calls,
	// including those racing the first, are no-ops.
	// A nil o is treated as an empty success.
	Complete(o Outcome[T]) Cell[T]

	// CompleteWith arranges for the cell to complete with other's
	// outcome once other completes. It's a no-op if the cell completes
	// first by other means. It returns the cell itself.
	CompleteWith(other Cell[T]) Cell[T]

	// Value returns the cell's outcome and true if it's completed,
	// otherwise the zero Outcome and false. It never blocks.
	Value() (Outcome[T], bool)

	// IsCompleted reports whether the cell holds its outcome.
	IsCompleted() bool

	// IsExpired reports whether the cell's deadline has passed.
	// An expired cell may still receive a completion.
	IsExpired() bool

	// Await blocks until the cell is completed, then returns the cell
	// and a nil error. If the deadline passes first, it returns the
	// cell and a *TimeoutError.
	Await() (Cell[T], error)

	// AwaitBlocking blocks until the cell is completed, ignoring the
	// deadline, then returns the cell.
	AwaitBlocking() Cell[T]

	// AwaitValue blocks until the cell is completed or the deadline
	// passes, then returns the outcome as Value would.
	AwaitValue() (Outcome[T], bool)

	// ValueWithin blocks for at most the smaller of d and the remaining
	// time to the deadline, then returns the outcome as Value would.
	// A negative d, like Unbounded, adds no bound beyond the deadline.
	ValueWithin(d time.Duration) (Outcome[T], bool)

	// OnComplete registers fn to run once the cell completes, receiving
	// the cell itself. If the cell is already completed, fn runs
	// synchronously on the calling goroutine before OnComplete returns.
	// Otherwise it runs on whichever goroutine completes the cell, in
	// registration order relative to the cell's other listeners.
	OnComplete(fn func(Cell[T]))

	// remaining returns the time left until the deadline, 0 at least,
	// or Unbounded. Cells derived by combinators inherit it as their
	// timeout.
	remaining() time.Duration

	// cellConfig returns the config the cell was created with, nil for
	// all-defaults. Derived cells inherit it.
	cellConfig() *CellConfig
}

// CellConfig carries the injectable collaborators of a cell. A nil
// config, or a nil field, falls back to the package defaults.
type CellConfig struct {
	// Clock overrides the monotonic source used for the deadline.
	Clock Clock

	// Reporter overrides the sink for listener errors.
	Reporter Reporter
}

func (c *CellConfig) clock() Clock {
	if c != nil && c.Clock != nil {
		return c.Clock
	}
	return monoClock
}

func (c *CellConfig) reporter() Reporter {
	if c != nil && c.Reporter != nil {
		return c.Reporter
	}
	return defReporter
}

// notifyListener invokes fn with c, recovering any panic into a report
// on rep, so that a failing listener can't abort the notification loop
// nor reach the completing goroutine.
func notifyListener[T any](c Cell[T], rep Reporter, fn func(Cell[T])) {
	defer func() {
		if v := recover(); v != nil {
			rep.Report(newPanicError(v), "listener", "cell listener panicked")
		}
	}()
	fn(c)
}
