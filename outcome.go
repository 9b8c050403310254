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

import "fmt"

// Outcome is a container for the terminal value of a Cell, either a
// success holding a value, or a failure holding an error.
type Outcome[T any] interface {
	// Val returns the success value, or the zero value on a failure.
	Val() T

	// Err returns the failure error, or nil on a success.
	Err() error

	// IsSuccess reports whether this Outcome is a success.
	IsSuccess() bool

	// IsFailure reports whether this Outcome is a failure.
	IsFailure() bool

	// Get returns the success value, or the zero value and the failure
	// error.
	Get() (T, error)
}

// Success returns a success Outcome holding val.
func Success[T any](val T) Outcome[T] {
	return successOutcome[T]{val: val}
}

// Fail returns a failure Outcome holding err.
// A nil err is normalized to ErrNilFailure, so that the returned Outcome
// is always a failure.
func Fail[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrNilFailure
	}
	return failureOutcome[T]{err: err}
}

// Failf returns a failure Outcome holding a new error built from the
// provided format and args, following the fmt.Errorf rules, including
// the %w verb.
func Failf[T any](format string, args ...any) Outcome[T] {
	return failureOutcome[T]{err: fmt.Errorf(format, args...)}
}

type successOutcome[T any] struct{ val T }
type failureOutcome[T any] struct{ err error }

func (o successOutcome[T]) Val() T { return o.val }
func (o failureOutcome[T]) Val() (v T) { return v }

func (o successOutcome[T]) Err() error { return nil }
func (o failureOutcome[T]) Err() error { return o.err }

func (o successOutcome[T]) IsSuccess() bool { return true }
func (o failureOutcome[T]) IsSuccess() bool { return false }

func (o successOutcome[T]) IsFailure() bool { return false }
func (o failureOutcome[T]) IsFailure() bool { return true }

func (o successOutcome[T]) Get() (T, error)     { return o.val, nil }
func (o failureOutcome[T]) Get() (v T, _ error) { return v, o.err }

func (o successOutcome[T]) String() string {
	return fmt.Sprintf("success: %v", o.val)
}
func (o failureOutcome[T]) String() string {
	return fmt.Sprintf("failure: %s", o.err.Error())
}

// getFinalOutcome returns the final outcome to be used when returned
// outside the scope of the internal functions here.
func getFinalOutcome[T any](o Outcome[T]) Outcome[T] {
	// if no outcome was set, then it's implicitly the empty success
	if o == nil {
		return successOutcome[T]{}
	}
	return o
}
