package deferred

import (
	"sync/atomic"
	"time"

	"github.com/asmsh/deferred/internal/arrival"
)

// The aggregators here compose a list of cells into one cell. They
// attach listeners to every input and never block, so they tolerate
// interleaved notification from any subset of the inputs in any order.

// FirstCompletedOf returns a Cell resolving to the outcome of the first
// input cell whose completion is observed, success or failure alike.
// Completions of the remaining cells have no effect on the result.
//
// The returned cell is created with the provided timeout, independent
// of the inputs' deadlines.
func FirstCompletedOf[T any](cells []Cell[T], timeout time.Duration, c ...*CellConfig) Cell[T] {
	r := NewCell[T](timeout, c...)
	// the same listener goes on every input. Complete is idempotent, so
	// racing completions are benign: the first to arrive wins.
	for _, cell := range cells {
		cell.OnComplete(func(cc Cell[T]) {
			o, _ := cc.Value()
			r.Complete(o)
		})
	}
	return r
}

// Fold returns a Cell resolving to the left-fold of the inputs' success
// values with op, starting from zero, consumed in completion order, not
// input order. Callers whose op is commutative and associative observe
// a deterministic result; others observe the completion interleaving.
//
// The first failure observed among the inputs becomes the result, and a
// panic in op becomes the result as a PanicError failure. An empty
// input resolves to success(zero) immediately.
func Fold[T, R any](zero R, timeout time.Duration, cells []Cell[T], op func(R, T) R, c ...*CellConfig) Cell[R] {
	if op == nil {
		panic(nilCallbackPanicMsg)
	}
	if len(cells) == 0 {
		return Completed(Success(zero))
	}

	r := NewCell[R](timeout, c...)

	// vals accumulates successes lock-free, in completion order.
	// arrivals counts successful completions only: a failure completes
	// the result directly and stops the count short of the target, so
	// the fold below can never run on a failed aggregation.
	var vals arrival.List[T]
	var arrivals atomic.Int64
	target := int64(len(cells))

	for _, cell := range cells {
		cell.OnComplete(func(cc Cell[T]) {
			o, _ := cc.Value()
			if o.IsFailure() {
				vals.Clear()
				r.Complete(Fail[R](o.Err()))
				return
			}

			// each Push happens before its Add, so the goroutine that
			// observes the last arrival sees every pushed value and
			// performs the fold inline.
			vals.Push(o.Val())
			if arrivals.Add(1) != target {
				return
			}
			r.Complete(guarded(func() Outcome[R] {
				acc := zero
				for _, v := range vals.Take() {
					acc = op(acc, v)
				}
				return Success(acc)
			}))
		})
	}
	return r
}

// Reduce is Fold with the first completed success as the zero: the
// remaining cells are then folded over with op, in completion order.
// The seed cell is excluded from that fold by its position in cells;
// another occurrence of the same cell elsewhere in cells is still
// folded.
//
// If the first observed completion is a failure, it becomes the result.
// An empty input resolves to failure(ErrEmptyReduce) immediately.
func Reduce[T any](cells []Cell[T], timeout time.Duration, op func(T, T) T, c ...*CellConfig) Cell[T] {
	if op == nil {
		panic(nilCallbackPanicMsg)
	}
	if len(cells) == 0 {
		return Completed(Fail[T](ErrEmptyReduce))
	}

	r := NewCell[T](timeout, c...)

	// seeded makes sure only the first completion elects itself as the
	// seed, no matter how many inputs complete concurrently.
	var seeded atomic.Bool

	for i, cell := range cells {
		i := i
		cell.OnComplete(func(cc Cell[T]) {
			if !seeded.CompareAndSwap(false, true) {
				return
			}

			o, _ := cc.Value()
			if o.IsFailure() {
				r.Complete(o)
				return
			}

			rest := make([]Cell[T], 0, len(cells)-1)
			rest = append(rest, cells[:i]...)
			rest = append(rest, cells[i+1:]...)
			r.CompleteWith(Fold(o.Val(), timeout, rest, op, c...))
		})
	}
	return r
}

// Sequence returns a Cell resolving to all the inputs' success values,
// in input order, unlike Fold. The first failure among the inputs
// short-circuits the result to that failure.
//
// An empty input resolves to success of an empty slice immediately.
func Sequence[T any](cells []Cell[T], c ...*CellConfig) Cell[[]T] {
	var conf *CellConfig
	if len(c) != 0 {
		conf = c[0]
	}

	// left-fold the inputs into an accumulator cell. each step adopts
	// the accumulated slice, then appends the next cell's value to it.
	acc := Completed(Success(make([]T, 0, len(cells))), conf)
	for _, cell := range cells {
		cell := cell
		acc = FlatMap(acc, func(vals []T) Cell[[]T] {
			return Map(cell, func(v T) []T {
				return append(vals, v)
			})
		})
	}

	// the chain above inherits the 0 timeout of its completed seed, so
	// re-home the result on an unbounded cell for the caller to wait on.
	r := newCell[[]T](Unbounded, conf)
	r.CompleteWith(acc)
	return r
}

// Traverse maps every item to a cell with fn, then sequences the
// resulting cells: it resolves to fn's results in input order, and the
// first failure short-circuits it. A nil cell returned from fn becomes
// a failure holding ErrNilCell.
//
// It will panic if a nil callback is passed.
func Traverse[T, U any](items []T, fn func(T) Cell[U], c ...*CellConfig) Cell[[]U] {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}

	cells := make([]Cell[U], len(items))
	for i, item := range items {
		cell := fn(item)
		if cell == nil {
			cell = Rejected[U](ErrNilCell)
		}
		cells[i] = cell
	}
	return Sequence(cells, c...)
}
