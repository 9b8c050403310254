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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// recordReporter is a Reporter implementation that's used only for
// testing. it records every report it receives.
type recordReporter struct {
	mu      sync.Mutex
	reports []string
}

func (r *recordReporter) Report(err error, source, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, fmt.Sprintf("%s: %s", source, err))
}

func (r *recordReporter) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// testClock returns a Clock backed by the returned counter, so tests
// can move time without sleeping.
func testClock() (*atomic.Int64, Clock) {
	now := new(atomic.Int64)
	return now, func() int64 { return now.Load() }
}

func TestCompleteFirstWins(t *testing.T) {
	c := NewCell[int](time.Second)

	c.Complete(Success(1))
	c.Complete(Success(2))
	c.Complete(Fail[int](newStrError()))

	o, ok := c.Value()
	if !ok {
		t.Fatal("Value() not present after Complete")
	}
	if !o.IsSuccess() || o.Val() != 1 {
		t.Fatalf("Value() = %v, want: success: 1", o)
	}
}

func TestCompleteNilOutcome(t *testing.T) {
	c := NewCell[string](time.Second)
	c.Complete(nil)

	o, ok := c.Value()
	if !ok || !o.IsSuccess() || o.Val() != "" {
		t.Fatalf("Complete(nil) stored %v, want: empty success", o)
	}
}

func TestListenersBeforeCompletion(t *testing.T) {
	c := NewCell[int](time.Second)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		c.OnComplete(func(cc Cell[int]) {
			o, ok := cc.Value()
			if !ok || o.Val() != 7 {
				t.Errorf("listener %d observed %v, want: success: 7", i, o)
			}
			order = append(order, i)
		})
	}

	c.Complete(Success(7))

	if len(order) != 5 {
		t.Fatalf("notified %d listeners, want: 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("notification order = %v, want: registration order", order)
		}
	}
}

func TestListenerAfterCompletion(t *testing.T) {
	c := NewCell[int](time.Second)
	c.Complete(Success(3))

	ran := false
	c.OnComplete(func(cc Cell[int]) {
		o, _ := cc.Value()
		if o.Val() != 3 {
			t.Errorf("listener observed %v, want: success: 3", o)
		}
		ran = true
	})

	// the inline path runs on the registering goroutine, before
	// OnComplete returns.
	if !ran {
		t.Fatal("listener on a completed cell didn't run inline")
	}
}

func TestListenerPanicReported(t *testing.T) {
	rep := &recordReporter{}
	c := NewCell[int](time.Second, &CellConfig{Reporter: rep})

	var secondRan bool
	c.OnComplete(func(Cell[int]) { panic("first listener") })
	c.OnComplete(func(Cell[int]) { secondRan = true })

	c.Complete(Success(1))

	if !secondRan {
		t.Fatal("a panicking listener aborted the notification loop")
	}
	if rep.len() != 1 {
		t.Fatalf("got %d reports, want: 1", rep.len())
	}
}

func TestCompleteWith(t *testing.T) {
	t.Run("pending source", func(t *testing.T) {
		src := NewCell[int](time.Second)
		dst := NewCell[int](time.Second)
		dst.CompleteWith(src)

		if dst.IsCompleted() {
			t.Fatal("dst completed before src")
		}
		src.Complete(Success(11))

		o, ok := dst.Value()
		if !ok || o.Val() != 11 {
			t.Fatalf("dst Value() = (%v, %v), want: (success: 11, true)", o, ok)
		}
	})

	t.Run("dst already completed", func(t *testing.T) {
		src := NewCell[int](time.Second)
		dst := NewCell[int](time.Second)
		dst.Complete(Success(1))
		dst.CompleteWith(src)
		src.Complete(Success(2))

		o, _ := dst.Value()
		if o.Val() != 1 {
			t.Fatalf("dst Value() = %v, want: success: 1", o)
		}
	})

	t.Run("nil source", func(t *testing.T) {
		dst := NewCell[int](time.Second)
		dst.CompleteWith(nil)

		o, ok := dst.Value()
		if !ok || !errors.Is(o.Err(), ErrNilCell) {
			t.Fatalf("dst Value() = (%v, %v), want: failure: ErrNilCell", o, ok)
		}
	})
}

func TestAwaitZeroTimeout(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		c := NewCell[int](0)

		_, err := c.Await()
		var te *TimeoutError
		if !errors.As(err, &te) {
			t.Fatalf("Await() error = %v, want: *TimeoutError", err)
		}
	})

	t.Run("completion preceded the call", func(t *testing.T) {
		c := NewCell[int](0)
		c.Complete(Success(9))

		got, err := c.Await()
		if err != nil {
			t.Fatalf("Await() error = %v, want: nil", err)
		}
		o, _ := got.Value()
		if o.Val() != 9 {
			t.Fatalf("Await() outcome = %v, want: success: 9", o)
		}
	})
}

func TestAwaitCompletes(t *testing.T) {
	c := NewCell[int](time.Second)
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Complete(Success(5))
	}()

	got, err := c.Await()
	if err != nil {
		t.Fatalf("Await() error = %v, want: nil", err)
	}
	o, _ := got.Value()
	if o.Val() != 5 {
		t.Fatalf("Await() outcome = %v, want: success: 5", o)
	}
}

func TestAwaitBlockingIgnoresDeadline(t *testing.T) {
	c := NewCell[int](time.Millisecond)
	go func() {
		time.Sleep(30 * time.Millisecond)
		c.Complete(Success(5))
	}()

	got := c.AwaitBlocking()
	o, ok := got.Value()
	if !ok || o.Val() != 5 {
		t.Fatalf("AwaitBlocking() outcome = (%v, %v), want: (success: 5, true)", o, ok)
	}
}

func TestAwaitValue(t *testing.T) {
	t.Run("timed out", func(t *testing.T) {
		c := NewCell[int](10 * time.Millisecond)
		if o, ok := c.AwaitValue(); ok {
			t.Fatalf("AwaitValue() = (%v, true), want: absent", o)
		}
	})

	t.Run("completed", func(t *testing.T) {
		c := NewCell[int](time.Second)
		go func() {
			time.Sleep(10 * time.Millisecond)
			c.Complete(Success(8))
		}()
		o, ok := c.AwaitValue()
		if !ok || o.Val() != 8 {
			t.Fatalf("AwaitValue() = (%v, %v), want: (success: 8, true)", o, ok)
		}
	})
}

func TestValueWithin(t *testing.T) {
	t.Run("bounded by d", func(t *testing.T) {
		c := NewCell[int](Unbounded)

		start := time.Now()
		_, ok := c.ValueWithin(20 * time.Millisecond)
		if ok {
			t.Fatal("ValueWithin on a pending cell returned a value")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("ValueWithin(20ms) blocked for %s", elapsed)
		}
	})

	t.Run("bounded by the deadline", func(t *testing.T) {
		c := NewCell[int](10 * time.Millisecond)

		start := time.Now()
		_, ok := c.ValueWithin(time.Hour)
		if ok {
			t.Fatal("ValueWithin on a pending cell returned a value")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("ValueWithin(1h) ignored the remaining deadline, blocked for %s", elapsed)
		}
	})

	t.Run("completed", func(t *testing.T) {
		c := NewCell[int](time.Second)
		c.Complete(Success(4))
		o, ok := c.ValueWithin(0)
		if !ok || o.Val() != 4 {
			t.Fatalf("ValueWithin(0) = (%v, %v), want: (success: 4, true)", o, ok)
		}
	})
}

func TestIsExpired(t *testing.T) {
	now, clk := testClock()
	c := NewCell[int](100, &CellConfig{Clock: clk})

	if c.IsExpired() {
		t.Fatal("fresh cell is expired")
	}
	now.Store(99)
	if c.IsExpired() {
		t.Fatal("cell expired before its deadline")
	}
	now.Store(100)
	if !c.IsExpired() {
		t.Fatal("cell not expired at its deadline")
	}
}

func TestExpiredCompletion(t *testing.T) {
	// nothing prevents completing an expired cell, and listeners
	// registered after the deadline still fire.
	c := NewCell[int](0)
	if !c.IsExpired() {
		t.Fatal("zero-timeout cell is not expired")
	}

	c.Complete(Success(6))

	ran := false
	c.OnComplete(func(cc Cell[int]) {
		o, _ := cc.Value()
		if o.Val() != 6 {
			t.Errorf("listener observed %v, want: success: 6", o)
		}
		ran = true
	})
	if !ran {
		t.Fatal("listener on an expired, completed cell didn't fire")
	}
}

func TestConcurrentComplete(t *testing.T) {
	const racers = 32

	c := NewCell[int](time.Second)
	var notified atomic.Int32
	c.OnComplete(func(Cell[int]) { notified.Add(1) })

	var g errgroup.Group
	for i := 0; i < racers; i++ {
		i := i
		g.Go(func() error {
			c.Complete(Success(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := notified.Load(); n != 1 {
		t.Fatalf("listener notified %d times, want: exactly once", n)
	}
	o, ok := c.Value()
	if !ok || !o.IsSuccess() || o.Val() < 0 || o.Val() >= racers {
		t.Fatalf("Value() = (%v, %v), want: the success of one racer", o, ok)
	}
}

func TestCompletedCell(t *testing.T) {
	c := Completed(Success("v"))

	if !c.IsCompleted() || !c.IsExpired() {
		t.Fatalf("Completed cell flags = (%v, %v), want: (true, true)", c.IsCompleted(), c.IsExpired())
	}
	if got := c.Complete(Success("other")); got != c {
		t.Fatal("Complete on a completed cell must return the cell itself")
	}
	if o, _ := c.Value(); o.Val() != "v" {
		t.Fatalf("Value() = %v, want: success: v", o)
	}
	if _, err := c.Await(); err != nil {
		t.Fatalf("Await() error = %v, want: nil", err)
	}
	if o, ok := c.AwaitValue(); !ok || o.Val() != "v" {
		t.Fatalf("AwaitValue() = (%v, %v), want: (success: v, true)", o, ok)
	}

	ran := false
	c.OnComplete(func(cc Cell[string]) { ran = true })
	if !ran {
		t.Fatal("listener on a Completed cell didn't run inline")
	}
}

func TestResolvedRejected(t *testing.T) {
	if o, _ := Resolved(1).Value(); !o.IsSuccess() || o.Val() != 1 {
		t.Fatalf("Resolved(1) = %v, want: success: 1", o)
	}
	wantErr := newStrError()
	if o, _ := Rejected[int](wantErr).Value(); !o.IsFailure() || o.Err() != wantErr {
		t.Fatalf("Rejected = %v, want: failure: %v", o, wantErr)
	}
}
