// Copyright 2023 Ahmad Sameh(asmsh)
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

import "time"

// Scheduler is the external capability that runs submitted thunks. The
// core needs nothing else from the execution side: the worker pool, the
// dispatcher, or whatever runs the thunk lives behind this interface.
//
// The pool package provides a production implementation. GoScheduler is
// the trivial one.
type Scheduler interface {
	// Submit executes thunk at some later point, on some goroutine.
	Submit(thunk func())
}

// GoScheduler runs every thunk on its own new goroutine. It's the
// default Scheduler of Submit when none is provided.
type GoScheduler struct{}

func (GoScheduler) Submit(thunk func()) {
	go thunk()
}

// Submit schedules body on s and returns a pending Cell, with the
// provided timeout, that completes with body's result once it runs.
//
// A non-nil error from body rejects the cell with it. A panic in body
// rejects the cell with a PanicError. The cell's deadline bounds the
// caller's waiting only: a body that outlives it still completes the
// cell when it eventually returns.
//
// A nil s falls back to GoScheduler. It will panic if a nil body is
// passed.
func Submit[T any](body func() (T, error), timeout time.Duration, s Scheduler, c ...*CellConfig) Cell[T] {
	if body == nil {
		panic(nilBodyPanicMsg)
	}
	if s == nil {
		s = GoScheduler{}
	}

	cell := NewCell[T](timeout, c...)
	s.Submit(func() {
		cell.Complete(guarded(func() Outcome[T] {
			val, err := body()
			if err != nil {
				return Fail[T](err)
			}
			return Success(val)
		}))
	})
	return cell
}
