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

// Package pnapi is the public surface of the client: an Environment
// holding the shared runtime (watcher, auto-heartbeat pool) and a
// Client per connection identity, whose methods format a URL and hand
// it to dispatch. Everything here is a thin consumer of the engine.
package pnapi

import (
	"context"

	libhbt "github.com/nabbar/pubnub-go/heartbeat"
	liblog "github.com/nabbar/pubnub-go/logger"
	libsch "github.com/nabbar/pubnub-go/scheduler"
)

// Environment is the explicit lifecycle handle for the process-wide
// machinery: one watcher goroutine and one auto-heartbeat pool, started
// at construction and torn down by Stop.
type Environment struct {
	log  liblog.FuncLog
	rt   *libsch.Runtime
	pool *libhbt.Pool
	cnl  context.CancelFunc
}

// NewEnvironment builds and starts the shared runtime. Every client of
// the same application should share one Environment.
func NewEnvironment(ctx context.Context, log liblog.FuncLog) *Environment {
	if ctx == nil {
		ctx = context.Background()
	}

	run, cnl := context.WithCancel(ctx)

	e := &Environment{
		log:  log,
		rt:   libsch.NewRuntime(0, log),
		pool: libhbt.NewPool(run, log),
		cnl:  cnl,
	}

	go e.rt.Run(run)

	return e
}

// Runtime exposes the watcher for advanced callers (tests, console).
func (e *Environment) Runtime() *libsch.Runtime { return e.rt }

// Heartbeats exposes the auto-heartbeat pool.
func (e *Environment) Heartbeats() *libhbt.Pool { return e.pool }

// Stop shuts the watcher and the heartbeat pool down and waits for
// both goroutines to exit.
func (e *Environment) Stop() {
	e.cnl()
	e.pool.Stop()
	e.rt.Stop()
}
