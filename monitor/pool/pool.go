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

// Package pool implements monitor/types.Pool: a context-scoped, concurrency-safe
// registry of named health checks used by the config component registry's
// ComponentMonitor components.
package pool

import (
	"context"
	"sync"

	montps "github.com/nabbar/pubnub-go/monitor/types"
)

type pool struct {
	ctx context.Context
	mu  sync.RWMutex
	m   map[string]montps.Monitor
}

// New creates an empty monitor Pool bound to ctx. The context is currently
// unused beyond giving the pool a cancellation scope consistent with the
// rest of the registry's Config[T] components.
func New(ctx context.Context) montps.Pool {
	if ctx == nil {
		ctx = context.Background()
	}

	return &pool{
		ctx: ctx,
		m:   make(map[string]montps.Monitor),
	}
}

func (p *pool) Add(m montps.Monitor) {
	if m == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.m[m.Name()] = m
}

func (p *pool) Remove(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.m, name)
}

func (p *pool) Check() map[string]error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	res := make(map[string]error, len(p.m))

	for name, m := range p.m {
		res[name] = m.Check()
	}

	return res
}
