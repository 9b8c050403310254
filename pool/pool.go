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

// Package pool provides a fixed-size worker pool that satisfies the
// deferred.Scheduler interface, for running submitted thunks off a
// bounded queue instead of one goroutine per thunk.
package pool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	ErrPoolStopped        = errors.New("pool: worker pool is stopped or stopping")
	ErrPoolAlreadyRunning = errors.New("pool: worker pool is already running")
	ErrPoolNotRunning     = errors.New("pool: worker pool is not running")
	ErrNilThunk           = errors.New("pool: the provided thunk is nil")
)

type State int32

const (
	Created State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "<unknown>"
	}
}

// Pool runs thunks on a fixed set of worker goroutines, fed from a
// buffered queue. It implements the deferred.Scheduler interface, so it
// can be passed directly to deferred.Submit.
type Pool struct {
	thunks  chan func()
	quit    chan struct{}
	wg      sync.WaitGroup
	state   atomic.Int32
	workers int
	log     *slog.Logger
}

// New returns a pool built from cfg, not yet running. A zero or negative
// Workers, or a negative Buffer, falls back to the DefaultConfig value;
// a zero Buffer keeps the queue unbuffered. A nil logger uses
// slog.Default.
func New(cfg Config, l *slog.Logger) *Pool {
	cfg = cfg.withDefaults()
	if l == nil {
		l = slog.Default()
	}
	return &Pool{
		thunks:  make(chan func(), cfg.Buffer),
		quit:    make(chan struct{}),
		workers: cfg.Workers,
		log:     l,
	}
}

// Start launches the worker goroutines. It can be called once.
func (p *Pool) Start() error {
	if !p.state.CompareAndSwap(int32(Created), int32(Running)) {
		if p.loadState() == Running {
			return ErrPoolAlreadyRunning
		}
		return ErrPoolStopped
	}

	p.log.Info("worker pool starting", "workers", p.workers, "buffer", cap(p.thunks))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	return nil
}

// Submit enqueues thunk for execution on a worker. It implements the
// deferred.Scheduler interface, so it must not lose thunks: when the
// pool is not running, or shuts down while the queue is full, the thunk
// runs on its own new goroutine instead.
func (p *Pool) Submit(thunk func()) {
	if thunk == nil {
		return
	}
	if p.loadState() != Running {
		go thunk()
		return
	}

	select {
	case p.thunks <- thunk:
	case <-p.quit:
		go thunk()
	}
}

// TrySubmit enqueues thunk like Submit, but reports a pool that's not
// running, or a ctx that expires while the queue is full, as an error
// instead of falling back to a new goroutine.
func (p *Pool) TrySubmit(ctx context.Context, thunk func()) error {
	if thunk == nil {
		return ErrNilThunk
	}
	if p.loadState() != Running {
		return ErrPoolStopped
	}

	select {
	case p.thunks <- thunk:
		return nil
	case <-p.quit:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the workers, waiting for in-flight and queued thunks
// to finish, up to ctx. Thunks that slipped into the queue during the
// stop are run on the calling goroutine before it returns.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(Running), int32(Stopping)) {
		return ErrPoolNotRunning
	}
	close(p.quit)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	// late stragglers, racing the workers' drain
	for {
		select {
		case thunk := <-p.thunks:
			p.run(-1, thunk)
		default:
			p.state.Store(int32(Stopped))
			p.log.Info("worker pool stopped")
			return nil
		}
	}
}

// State returns the pool's current lifecycle state.
func (p *Pool) State() State {
	return p.loadState()
}

func (p *Pool) loadState() State {
	return State(p.state.Load())
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()

	for {
		select {
		case thunk := <-p.thunks:
			p.run(id, thunk)
		case <-p.quit:
			// drain what's already queued, then exit
			for {
				select {
				case thunk := <-p.thunks:
					p.run(id, thunk)
				default:
					return
				}
			}
		}
	}
}

// run shields the worker from thunk panics. Thunks built by
// deferred.Submit recover on their own; this catches everything else.
func (p *Pool) run(id int, thunk func()) {
	defer func() {
		if v := recover(); v != nil {
			p.log.Error("worker recovered a thunk panic", "worker", id, "panic", v)
		}
	}()
	thunk()
}
