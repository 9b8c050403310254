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

// Package arrival provides a lock-free accumulator that preserves
// arrival order. Writers push concurrently; a single reader detaches
// the whole list at once.
package arrival

import "sync/atomic"

// List accumulates values from concurrent pushers. The zero value is
// ready to use.
//
// Internally it's a CAS-maintained prepend list, so the stored order is
// the reverse of arrival order. Take reverses it back.
type List[T any] struct {
	head atomic.Pointer[node[T]]
}

type node[T any] struct {
	val  T
	next *node[T]
}

// Push adds v to the list. It's safe for concurrent use.
func (l *List[T]) Push(v T) {
	n := &node[T]{val: v}
	for {
		old := l.head.Load()
		n.next = old
		if l.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// Take detaches every value pushed so far and returns them in arrival
// order. Values pushed concurrently with Take land in either the
// returned slice or the list, never both, never neither.
func (l *List[T]) Take() []T {
	head := l.head.Swap(nil)

	var n int
	for p := head; p != nil; p = p.next {
		n++
	}

	out := make([]T, n)
	i := n - 1
	for p := head; p != nil; p = p.next {
		out[i] = p.val
		i--
	}
	return out
}

// Clear discards every value pushed so far.
func (l *List[T]) Clear() {
	l.head.Swap(nil)
}
