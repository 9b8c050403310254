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

// The combinators here are package-level functions rather than Cell
// methods, because a method can't introduce the output type parameter.
// Each one attaches a single listener to the upstream and never blocks.
// Those that return a Cell derive a fresh cell carrying the upstream's
// remaining timeout and config, which completes on whichever goroutine
// completes the upstream, or inline when the upstream is already
// completed. Foreach and Receive derive no cell.

// derive returns the pending result cell for a combinator over c.
func derive[U, T any](c Cell[T]) *deferredCell[U] {
	return newCell[U](c.remaining(), c.cellConfig())
}

// guarded runs f and returns its outcome, converting a panic in f into
// a failure outcome holding a PanicError.
func guarded[U any](f func() Outcome[U]) (o Outcome[U]) {
	defer func() {
		if v := recover(); v != nil {
			o = Fail[U](newPanicError(v))
		}
	}()
	return f()
}

// Map returns a Cell resolving to f applied to c's success value.
// A failure of c is forwarded untouched. A panic in f becomes a failure
// holding a PanicError.
//
// It will panic if a nil callback is passed.
func Map[T, U any](c Cell[T], f func(T) U) Cell[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}
	return MapErr(c, func(val T) (U, error) {
		return f(val), nil
	})
}

// MapErr is Map for callbacks that return an error as a value. A
// non-nil error from f rejects the returned Cell with it.
//
// It will panic if a nil callback is passed.
func MapErr[T, U any](c Cell[T], f func(T) (U, error)) Cell[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	r := derive[U](c)
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			r.Complete(Fail[U](o.Err()))
			return
		}
		r.Complete(guarded(func() Outcome[U] {
			val, err := f(o.Val())
			if err != nil {
				return Fail[U](err)
			}
			return Success(val)
		}))
	})
	return r
}

// FlatMap returns a Cell resolving to the cell produced by f from c's
// success value: once f returns, the result adopts that cell's eventual
// outcome. A failure of c is forwarded untouched. A panic in f becomes
// a failure holding a PanicError, and a nil cell returned from f
// becomes a failure holding ErrNilCell.
//
// A callback that blocks on the returned Cell deadlocks. See the
// package comment.
//
// It will panic if a nil callback is passed.
func FlatMap[T, U any](c Cell[T], f func(T) Cell[U]) Cell[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	r := derive[U](c)
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			r.Complete(Fail[U](o.Err()))
			return
		}
		flatMapInner(r, f, o.Val())
	})
	return r
}

func flatMapInner[T, U any](r *deferredCell[U], f func(T) Cell[U], val T) {
	defer func() {
		if v := recover(); v != nil {
			r.Complete(Fail[U](newPanicError(v)))
		}
	}()

	next := f(val)
	if next == nil {
		r.Complete(Fail[U](ErrNilCell))
		return
	}
	r.CompleteWith(next)
}

// Filter returns a Cell resolving to c's success value if pred accepts
// it, or to a failure holding ErrNoMatch if pred rejects it. A failure
// of c is forwarded untouched. A panic in pred becomes a failure
// holding a PanicError.
//
// It will panic if a nil predicate is passed.
func Filter[T any](c Cell[T], pred func(T) bool) Cell[T] {
	if pred == nil {
		panic(nilCallbackPanicMsg)
	}

	r := derive[T](c)
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			r.Complete(o)
			return
		}
		r.Complete(guarded(func() Outcome[T] {
			if !pred(o.Val()) {
				return Fail[T](ErrNoMatch)
			}
			return o
		}))
	})
	return r
}

// Collect returns a Cell resolving to the value produced by the partial
// function from c's success value, or to a failure holding ErrNoMatch
// where partial reports it's not defined. A failure of c is forwarded
// untouched. A panic in partial becomes a failure holding a PanicError.
//
// It will panic if a nil partial function is passed.
func Collect[T, U any](c Cell[T], partial func(T) (U, bool)) Cell[U] {
	if partial == nil {
		panic(nilCallbackPanicMsg)
	}

	r := derive[U](c)
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			r.Complete(Fail[U](o.Err()))
			return
		}
		r.Complete(guarded(func() Outcome[U] {
			val, ok := partial(o.Val())
			if !ok {
				return Fail[U](ErrNoMatch)
			}
			return Success(val)
		}))
	})
	return r
}

// Foreach runs f with c's success value for its side effects. It
// returns nothing and derives no cell. A failure of c is a no-op. A
// panic in f is reported to the cell's Reporter, not propagated.
//
// It will panic if a nil callback is passed.
func Foreach[T any](c Cell[T], f func(T)) {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	rep := c.cellConfig().reporter()
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			return
		}
		defer func() {
			if v := recover(); v != nil {
				rep.Report(newPanicError(v), "foreach", "foreach callback panicked")
			}
		}()
		f(o.Val())
	})
}

// Receive runs the partial function with c's success value for its side
// effects. An undefined partial (a false return) is silently ignored,
// and so is a failure of c. A panic in partial is reported to the
// cell's Reporter, not propagated.
//
// It will panic if a nil partial function is passed.
func Receive[T any](c Cell[T], partial func(T) bool) {
	if partial == nil {
		panic(nilCallbackPanicMsg)
	}

	rep := c.cellConfig().reporter()
	c.OnComplete(func(cc Cell[T]) {
		o, _ := cc.Value()
		if o.IsFailure() {
			return
		}
		defer func() {
			if v := recover(); v != nil {
				rep.Report(newPanicError(v), "receive", "receive callback panicked")
			}
		}()
		partial(o.Val())
	})
}
