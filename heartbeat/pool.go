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

// Package heartbeat keeps the server's presence state true for every
// channel/group a user context is subscribed to, even while that
// context is idle or busy with other transactions. It owns a bounded
// pool of "thumper" contexts, each dedicated to periodically performing
// one heartbeat transaction for exactly one paired user context.
//
// Lock ordering: the thumper-table lock comes before any per-thumper
// context lock; the stop flag has its own lock and is a leaf.
package heartbeat

import (
	"context"
	"sync"
	"time"

	libdsp "github.com/nabbar/pubnub-go/dispatch"
	liblog "github.com/nabbar/pubnub-go/logger"
	loglvl "github.com/nabbar/pubnub-go/logger/level"
	libout "github.com/nabbar/pubnub-go/outcome"
	libcfg "github.com/nabbar/pubnub-go/pnconfig"
	libctx "github.com/nabbar/pubnub-go/pnctx"
	libsem "github.com/nabbar/pubnub-go/semaphore"
	libkin "github.com/nabbar/pubnub-go/txkind"
	libfmt "github.com/nabbar/pubnub-go/urlfmt"

	"golang.org/x/time/rate"
)

// MaxThumpers is the size of the process-wide thumper pool.
const MaxThumpers = 16

// MinPeriod is the floor on the thump period, derived from the minimum
// transaction timer: a shorter period could not complete one heartbeat
// before the next was due.
const MinPeriod = 2 * time.Second

// tickInterval is the pool watcher's deadline-scan granularity.
const tickInterval = 500 * time.Millisecond

type thumper struct {
	idx      int32
	user     *libctx.Context
	hbCtx    *libctx.Context
	identity libcfg.Identity
	period   time.Duration
	deadline time.Time
	inFlight bool
}

// Pool is the auto-heartbeat runtime: one per application, always
// running on its own goroutine once started, independent of the
// blocking/non-blocking mode of the user contexts it serves.
type Pool struct {
	log liblog.FuncLog

	tableMu sync.Mutex
	table   [MaxThumpers]*thumper

	stopMu  sync.Mutex
	stopped bool

	// sem bounds concurrent thumps across the whole pool; retry gates
	// the immediate re-thump after a failure so a dead origin cannot
	// turn the pool into a tight reconnect loop.
	sem   libsem.Semaphore
	retry *rate.Limiter

	wake   chan struct{}
	doneCh chan struct{}
}

// NewPool builds a Pool and starts its watcher goroutine.
func NewPool(ctx context.Context, log liblog.FuncLog) *Pool {
	p := &Pool{
		log:    log,
		sem:    libsem.New(ctx, MaxThumpers, false),
		retry:  rate.NewLimiter(rate.Every(2*time.Second), MaxThumpers),
		wake:   make(chan struct{}, 1),
		doneCh: make(chan struct{}),
	}

	go p.run(ctx)

	return p
}

func (p *Pool) logger() liblog.Logger {
	if p.log != nil {
		return p.log()
	}

	return liblog.New(nil)
}

// Enable claims a free thumper slot for user, pairing it with a fresh
// heartbeat context sharing the same keys, and arms the period timer.
// Enabling an already-enabled context just updates its period.
func (p *Pool) Enable(user *libctx.Context, period time.Duration) error {
	if period < MinPeriod {
		period = MinPeriod
	}

	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	if th := p.lookup(user); th != nil {
		th.period = period
		th.deadline = time.Now().Add(period)
		return nil
	}

	slot := int32(-1)
	for i := range p.table {
		if p.table[i] == nil {
			slot = int32(i)
			break
		}
	}

	if slot < 0 {
		return ErrorPoolExhausted.Error(nil)
	}

	th := &thumper{
		idx:      slot,
		user:     user,
		identity: user.Identity(),
		period:   period,
		deadline: time.Now().Add(period),
	}
	th.hbCtx = p.newThumperContext(user)

	p.table[slot] = th

	user.Lock()
	user.SetThumperIndex(slot)
	user.Unlock()

	p.kick()

	return nil
}

// newThumperContext builds the dedicated heartbeat context: same keys
// as the paired user context, mutable configuration cloned, forced
// blocking so the pool drives each thump to completion itself.
func (p *Pool) newThumperContext(user *libctx.Context) *libctx.Context {
	cfg := user.Config().CloneForThumper()
	cfg.Blocking = true

	return libctx.New(cfg, p.log)
}

// Disable cancels any in-flight thump, clears the period timer and
// releases the slot.
func (p *Pool) Disable(user *libctx.Context) {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	th := p.lookup(user)
	if th == nil {
		return
	}

	th.hbCtx.Lock()
	th.hbCtx.Cancel()
	th.hbCtx.Unlock()

	p.table[th.idx] = nil

	user.Lock()
	user.SetThumperIndex(libctx.ThumperUnassigned)
	user.Unlock()
}

// Rearm restarts the period countdown for user's thumper. The engine
// calls it after every successful subscribe or heartbeat on the user
// context. A pool-owned heartbeat context is exempted: a thumper's own
// thump must never re-schedule itself, only finishThump moves its
// deadline.
func (p *Pool) Rearm(user *libctx.Context) {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	if p.isThumperContext(user) {
		return
	}

	if th := p.lookup(user); th != nil {
		th.deadline = time.Now().Add(th.period)
	}
}

// isThumperContext must be called with tableMu held.
func (p *Pool) isThumperContext(c *libctx.Context) bool {
	for _, th := range p.table {
		if th != nil && th.hbCtx == c {
			return true
		}
	}

	return false
}

// Enabled reports whether user currently holds a thumper slot.
func (p *Pool) Enabled(user *libctx.Context) bool {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	return p.lookup(user) != nil
}

// lookup must be called with tableMu held.
func (p *Pool) lookup(user *libctx.Context) *thumper {
	for _, th := range p.table {
		if th != nil && th.user == user {
			return th
		}
	}

	return nil
}

// Stop signals the watcher goroutine to exit and waits for it.
func (p *Pool) Stop() {
	p.stopMu.Lock()
	already := p.stopped
	p.stopped = true
	p.stopMu.Unlock()

	if already {
		return
	}

	p.kick()
	<-p.doneCh
}

func (p *Pool) stopping() bool {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	return p.stopped
}

func (p *Pool) kick() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pool) run(ctx context.Context) {
	defer close(p.doneCh)

	tick := time.NewTicker(tickInterval)
	defer tick.Stop()

	for {
		if p.stopping() || ctx.Err() != nil {
			return
		}

		p.fireExpired(ctx)

		select {
		case <-ctx.Done():
			return
		case <-p.wake:
		case <-tick.C:
		}
	}
}

// fireExpired launches a thump for every thumper whose period has run
// out and which has none in flight.
func (p *Pool) fireExpired(ctx context.Context) {
	now := time.Now()

	p.tableMu.Lock()
	var due []*thumper
	for _, th := range p.table {
		if th != nil && !th.inFlight && now.After(th.deadline) {
			th.inFlight = true
			due = append(due, th)
		}
	}
	p.tableMu.Unlock()

	for _, th := range due {
		th := th

		if err := p.sem.NewWorker(); err != nil {
			p.finishThump(th, false)
			return
		}

		go func() {
			defer p.sem.DeferWorker()
			p.thump(ctx, th)
		}()
	}
}

// thump clones the user context's mutable configuration into the
// thumper, re-initializing it first when the pub/sub keys changed out
// from under us, then issues one heartbeat with the user's current
// channel/group list.
func (p *Pool) thump(ctx context.Context, th *thumper) {
	th.user.Lock()
	cfg := th.user.Config().CloneForThumper()
	identity := th.user.Identity()
	channels := th.user.Channels()
	groups := th.user.Groups()
	th.user.Unlock()

	if channels == "" && groups == "" {
		// nothing subscribed: quiet re-arm, no wire traffic
		p.finishThump(th, true)
		return
	}

	if identity != th.identity {
		th.identity = identity
		th.hbCtx = p.newThumperContext(th.user)
	} else {
		cfg.Blocking = true
		th.hbCtx.SetConfig(cfg)
	}

	o, err := libdsp.Start(ctx, nil, th.hbCtx, libkin.Heartbeat, libfmt.Heartbeat(channels, groups))

	switch {
	case o == libout.OK:
		p.finishThump(th, true)
	case o == libout.Cancelled:
		// a cancel racing a key change: the next pass re-inits
		p.finishThump(th, false)
	default:
		if err != nil {
			p.logger().Entry(loglvl.WarnLevel, "auto-heartbeat failed").ErrorAdd(true, err).Log()
		}

		// failed thumps retry immediately, but never in a tight loop
		p.finishThump(th, !p.retry.Allow())
	}
}

// finishThump clears the in-flight flag and re-arms the deadline: a
// full period ahead on success, immediately when a failed thump is
// allowed to retry.
func (p *Pool) finishThump(th *thumper, fullPeriod bool) {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()

	if p.table[th.idx] != th {
		// disabled while in flight
		return
	}

	th.inFlight = false

	if fullPeriod {
		th.deadline = time.Now().Add(th.period)
	} else {
		th.deadline = time.Now()
	}

	p.kick()
}
