/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package semaphore bounds the number of concurrent workers spawned off a
// single goroutine (the heartbeat thumper pool, the aggregator's async
// callback) using a weighted semaphore, with an optional progress-bar hook
// for interactive CLI use.
package semaphore

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// MaxSimultaneous returns the default worker cap used when New is called
// with nbrSimultaneous == 0: twice the number of logical CPUs.
func MaxSimultaneous() int64 {
	return int64(2 * runtime.NumCPU())
}

// Semaphore bounds concurrent "worker" goroutines started from a single
// owner. NewWorker/NewWorkerTry acquire a slot, DeferWorker releases it.
// DeferMain waits for every outstanding worker to finish.
type Semaphore interface {
	// NewWorker blocks until a slot is free or the context is cancelled.
	NewWorker() error

	// NewWorkerTry attempts to acquire a slot without blocking. It returns
	// false if no slot is currently available.
	NewWorkerTry() bool

	// DeferWorker releases one previously acquired slot.
	DeferWorker()

	// DeferMain waits for every acquired slot to be released and cleans up
	// the progress bar, if any. It must be called exactly once, by the owner.
	DeferMain()

	// Weighted returns the configured concurrency limit.
	Weighted() int64

	// WithBar reports whether this semaphore renders a progress bar.
	WithBar() bool
}

type sem struct {
	ctx context.Context
	max int64
	wgt *semaphore.Weighted
	bar bool
}

// New creates a Semaphore bounding concurrency to nbrSimultaneous workers.
// If nbrSimultaneous is 0, MaxSimultaneous is used instead. When withBar is
// true, progress is reported to stdout as workers are acquired and released.
func New(ctx context.Context, nbrSimultaneous int64, withBar bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	max := nbrSimultaneous
	if max <= 0 {
		max = MaxSimultaneous()
	}

	return &sem{
		ctx: ctx,
		max: max,
		wgt: semaphore.NewWeighted(max),
		bar: withBar,
	}
}

func (s *sem) NewWorker() error {
	return s.wgt.Acquire(s.ctx, 1)
}

func (s *sem) NewWorkerTry() bool {
	return s.wgt.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	s.wgt.Release(1)
}

func (s *sem) DeferMain() {
	_ = s.wgt.Acquire(context.Background(), s.max)
	s.wgt.Release(s.max)
}

func (s *sem) Weighted() int64 {
	return s.max
}

func (s *sem) WithBar() bool {
	return s.bar
}
