/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package startStop gives any "run until stopped" goroutine (the
// aggregator's flush loop, a file logging hook) a uniform lifecycle:
// Start/Stop/Restart, IsRunning, Uptime, and a small rolling error history.
package startStop

import (
	"context"
	"sync"
	"time"
)

// FuncStart is run in its own goroutine by Start; it must block until ctx
// is cancelled (or it exits on its own, which is treated as a stop).
type FuncStart func(ctx context.Context) error

// FuncStop is called by Stop to ask FuncStart to return.
type FuncStop func(ctx context.Context) error

// StartStop is the lifecycle contract shared by background runners.
type StartStop interface {
	// Start launches the start function in a new goroutine. Calling Start
	// while already running returns an error without relaunching.
	Start(ctx context.Context) error

	// Stop calls the stop function and waits for the start function to
	// return. Calling Stop while not running is a no-op.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently active.
	IsRunning() bool

	// Uptime returns how long the runner has been running, or zero if
	// it is not currently running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error returned by the start or
	// stop function, or nil if none occurred.
	ErrorsLast() error

	// ErrorsList returns every error recorded since creation, oldest first.
	ErrorsList() []error
}

type runner struct {
	mu sync.Mutex

	fctStart FuncStart
	fctStop  FuncStop

	running bool
	since   time.Time

	cancel context.CancelFunc
	done   chan struct{}

	errs []error
}

// New creates a StartStop runner around the given start/stop functions.
// Either may be nil; calling Start/Stop without the matching function
// returns an error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		fctStart: start,
		fctStop:  stop,
		errs:     make([]error, 0),
	}
}

func (r *runner) recordErr(e error) {
	if e == nil {
		return
	}
	r.errs = append(r.errs, e)
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRunning
	}
	if r.fctStart == nil {
		e := ErrNoStartFunc
		r.recordErr(e)
		return e
	}

	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.since = time.Now()

	go func() {
		defer close(r.done)

		e := r.fctStart(cctx)

		r.mu.Lock()
		r.recordErr(e)
		r.running = false
		r.mu.Unlock()
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}

	fctStop := r.fctStop
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	var stopErr error
	if fctStop != nil {
		stopErr = fctStop(ctx)
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	r.mu.Lock()
	r.recordErr(stopErr)
	r.running = false
	r.mu.Unlock()

	return stopErr
}

func (r *runner) Restart(ctx context.Context) error {
	if e := r.Stop(ctx); e != nil {
		return e
	}
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return 0
	}

	return time.Since(r.since)
}

func (r *runner) ErrorsLast() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]error, len(r.errs))
	copy(res, r.errs)

	return res
}
