/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package scheduler is the single background watcher of spec §4.4: one
// goroutine driving every registered Context's state machine from a poll
// set, a timer list and a work queue, each behind its own lock exactly as
// the lock-ordering rules of spec §5 require (timer-list and work-queue
// locks are leaves; no further acquisitions happen while holding them).
//
// Go's net.Conn exposes no poll-set file descriptor to multiplex by hand,
// so "polling" here means re-invoking Context.Advance on every registered
// context each tick; the per-context zero-deadline read/write inside
// transport.Socket already yields the readiness signal a raw poll/select
// would have given the original C core.
package scheduler

import (
	"context"
	"sync"
	"time"

	liblog "github.com/nabbar/pubnub-go/logger"
	libctx "github.com/nabbar/pubnub-go/pnctx"
	librun "github.com/nabbar/pubnub-go/runner"
)

// PollInterval is the watcher's poll/select budget (spec §4.4: "≈ 100 ms").
const PollInterval = 100 * time.Millisecond

// TickInterval is the watcher's sleep-until-work budget (spec §4.4:
// "shortest poll timeout ≈200 ms").
const TickInterval = 200 * time.Millisecond

type timerEntry struct {
	ctx      *libctx.Context
	deadline time.Time
}

// Runtime is the explicit lifecycle handle spec §9's DESIGN NOTES
// recommend in place of a process-wide singleton: one per application,
// constructed once and torn down with Stop.
type Runtime struct {
	log liblog.FuncLog

	pollMu sync.Mutex
	poll   map[*libctx.Context]struct{}

	timerMu sync.Mutex
	timers  []timerEntry

	queue chan *libctx.Context

	wake chan struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRuntime builds a Runtime with a work queue of the given capacity
// (spec §4.4: "a fixed-capacity single-producer/single-consumer ring").
func NewRuntime(queueCapacity int, log liblog.FuncLog) *Runtime {
	if queueCapacity <= 0 {
		queueCapacity = 256
	}

	return &Runtime{
		log:    log,
		poll:   make(map[*libctx.Context]struct{}),
		queue:  make(chan *libctx.Context, queueCapacity),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (r *Runtime) logger() liblog.Logger {
	if r.log != nil {
		return r.log()
	}

	return liblog.New(nil)
}

// Register adds c to the poll set, arms its transaction timer from its
// configured timeout, and enqueues it for an immediate first Advance.
func (r *Runtime) Register(c *libctx.Context) {
	r.pollMu.Lock()
	r.poll[c] = struct{}{}
	r.pollMu.Unlock()

	d := c.Config().TransactionTimeout.Time()
	if d <= 0 {
		d = 10 * time.Second
	}

	r.arm(c, d)
	r.enqueue(c)
}

// Unregister removes c from the poll set and timer list - called once a
// transaction reaches a terminal outcome and the context has no
// keep-alive idle countdown to track.
func (r *Runtime) Unregister(c *libctx.Context) {
	r.pollMu.Lock()
	delete(r.poll, c)
	r.pollMu.Unlock()

	r.disarm(c)
}

func (r *Runtime) arm(c *libctx.Context, d time.Duration) {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()

	r.timers = append(r.timers, timerEntry{ctx: c, deadline: time.Now().Add(d)})
}

func (r *Runtime) disarm(c *libctx.Context) {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()

	kept := r.timers[:0]
	for _, t := range r.timers {
		if t.ctx != c {
			kept = append(kept, t)
		}
	}
	r.timers = kept
}

func (r *Runtime) enqueue(c *libctx.Context) {
	select {
	case r.queue <- c:
	default:
		// queue full: the context stays on the poll set and will be
		// re-queued on the next tick's readiness scan.
	}

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run is the watcher's main loop (spec §4.4, steps 1-4). It blocks until
// Stop is called or ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		r.drainQueue(ctx)

		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-r.wake:
		case <-ticker.C:
		case <-time.After(TickInterval):
		}

		r.pollReadiness(ctx)
		r.expireTimers()
	}
}

func (r *Runtime) drainQueue(ctx context.Context) {
	for {
		select {
		case c := <-r.queue:
			r.advanceOne(ctx, c)
		default:
			return
		}
	}
}

func (r *Runtime) advanceOne(ctx context.Context, c *libctx.Context) {
	defer func() {
		if r := recover(); r != nil {
			librun.RecoveryCaller("golib/scheduler/advanceOne", r)
		}
	}()

	c.Lock()
	changed := c.Advance(ctx)
	o, _, _ := c.LastResult()
	c.Unlock()

	if o.Terminal() {
		r.Unregister(c)
		return
	}

	if changed {
		r.enqueue(c)
	}
}

func (r *Runtime) pollReadiness(ctx context.Context) {
	r.pollMu.Lock()
	snapshot := make([]*libctx.Context, 0, len(r.poll))
	for c := range r.poll {
		snapshot = append(snapshot, c)
	}
	r.pollMu.Unlock()

	for _, c := range snapshot {
		r.enqueue(c)
	}
}

func (r *Runtime) expireTimers() {
	now := time.Now()

	r.timerMu.Lock()
	kept := r.timers[:0]
	var expired []*libctx.Context
	for _, t := range r.timers {
		if now.After(t.deadline) {
			expired = append(expired, t.ctx)
		} else {
			kept = append(kept, t)
		}
	}
	r.timers = kept
	r.timerMu.Unlock()

	for _, c := range expired {
		c.Lock()
		c.Expire()
		c.Unlock()
		r.enqueue(c)
	}
}

// Stop signals the watcher to exit at its next tick and waits for it to
// do so.
func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	<-r.doneCh
}
