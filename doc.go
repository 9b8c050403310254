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

// Package deferred provides a single-assignment result cell with listener
// support, plus non-blocking combinators and aggregation operators over it.
//
// A Cell represents a value that will be computed elsewhere, typically on a
// worker pool. Consumers can register listeners on it, derive new cells from
// it, or block on it until the result or a deadline arrives.
//
// A Cell is in one of two phases, and moves between them exactly once:
// Pending: the computation that corresponds to this Cell has not finished.
// Completed: the Cell holds its final Outcome, either a success or a failure.
//
//
// General Notes:-
//
// * Once a Cell is completed, its Outcome will never change. Any later
// Complete call is a no-op.
//
// * Every listener registered on a Cell is invoked exactly once. A listener
// registered before completion is invoked by whichever goroutine completes
// the Cell. A listener registered after completion is invoked synchronously
// on the registering goroutine.
//
// * Listeners on a single Cell are notified in registration order. No
// ordering is guaranteed between listeners on distinct Cells.
//
// * Listeners run outside the Cell's lock, so a listener may freely touch
// other Cells. A long-running listener delays its sibling listeners on the
// same Cell, so listeners should be short.
//
// * Every Cell carries an absolute deadline, computed from its timeout at
// creation. The deadline bounds waiting only. It never revokes the
// computation: a completion that arrives after the deadline still completes
// the Cell, and listeners registered afterwards still fire.
//
//
// Waiting Notes:-
//
// * Await blocks until the Cell is completed, or returns a *TimeoutError
// once the deadline passes.
//
// * AwaitBlocking blocks until the Cell is completed, ignoring the deadline.
//
// * AwaitValue and ValueWithin block like Await, but report a missed
// deadline by returning ok = false instead of an error.
//
// * A timeout of 0 creates the Cell already expired, so Await returns a
// *TimeoutError immediately, unless completion has already occurred.
//
// * A flatMap-style callback that blocks on its own result cell will
// deadlock. This is inherent to self-referential composition and is not
// detected.
//
//
// Error Notes:-
//
// * An error returned by a submitted body, or by a combinator callback, is
// stored in the Cell as a failure Outcome, and flows through combinators
// untouched, except for Foreach and Receive, which drop failures silently.
//
// * A panic in a submitted body or a combinator callback is recovered and
// stored as a failure holding a PanicError.
//
// * A panic in a listener is never propagated to the completing goroutine.
// It's reported through the Cell's Reporter, and notification of the
// remaining listeners continues.
package deferred
