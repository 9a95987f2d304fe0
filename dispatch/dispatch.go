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

// Package dispatch is the one discipline every public transaction method
// follows: lock, reject if busy, validate, format the URL, kick the FSM,
// release, return. pnapi's public wrappers are thin callers of Start;
// nothing else in this module is allowed to begin a transaction.
package dispatch

import (
	"context"
	"time"

	liberr "github.com/nabbar/pubnub-go/errors"
	libout "github.com/nabbar/pubnub-go/outcome"
	libctx "github.com/nabbar/pubnub-go/pnctx"
	libsch "github.com/nabbar/pubnub-go/scheduler"
	libkin "github.com/nabbar/pubnub-go/txkind"
	libfmt "github.com/nabbar/pubnub-go/urlfmt"
)

// URLFormatter writes the full HTTP path, query string and (for
// POST/PATCH/DELETE kinds) body for one transaction kind. It is the
// external collaborator contract: "a function to format a URL path into
// a request buffer". A non-nil error aborts the dispatch before any
// state changes.
type URLFormatter func(c *libctx.Context) (path string, body []byte, err error)

// Start runs the dispatch discipline for one transaction kind on c,
// registering the context with rt so the watcher drives it to
// completion - or, when the context is configured blocking, driving it
// to completion on the caller's goroutine here and now.
func Start(ctx context.Context, rt *libsch.Runtime, c *libctx.Context, kind libkin.Kind, fmtURL URLFormatter) (libout.Outcome, liberr.Error) {
	c.Lock()
	defer c.Unlock()

	if !c.CanStartTransaction() {
		return libout.InProgress, ErrorInProgress.Error(nil)
	}

	path, body, err := fmtURL(c)
	if err != nil {
		return classifyFormatError(err)
	}

	c.Begin(kind, path, body)

	if c.Config().Blocking {
		driveToCompletion(ctx, c)
	} else if rt != nil {
		rt.Register(c)
	}

	o, _, lastErr := c.LastResult()

	var e liberr.Error
	if lastErr != nil {
		e = ErrorTransactionFailed.Error(lastErr)
	}

	return o, e
}

// classifyFormatError maps a formatter rejection onto the outcome
// alphabet: an oversized URL/body is TX_BUFF_TOO_SMALL, everything else
// a missing channel/argument.
func classifyFormatError(err error) (libout.Outcome, liberr.Error) {
	if liberr.IsCode(err, libfmt.ErrorBufferTooSmall) {
		return libout.TxBuffTooSmall, ErrorBufferTooSmall.Error(err)
	}

	return libout.InvalidChannel, ErrorInvalidChannel.Error(err)
}

// Cancel transitions the in-flight machine toward its cancel states;
// the scheduler (or, in blocking mode, the loop below) drives it the
// rest of the way.
func Cancel(c *libctx.Context) {
	c.Lock()
	defer c.Unlock()

	c.Cancel()
}

func driveToCompletion(ctx context.Context, c *libctx.Context) {
	deadline := time.Now().Add(completionBudget(c))

	for {
		o, _, _ := c.LastResult()
		if o.Terminal() {
			return
		}

		if time.Now().After(deadline) {
			c.Expire()
		}

		if !c.Advance(ctx) {
			select {
			case <-ctx.Done():
				c.Cancel()
			case <-time.After(5 * time.Millisecond):
			}
		}
	}
}

func completionBudget(c *libctx.Context) time.Duration {
	d := c.Config().TransactionTimeout.Time()
	if d <= 0 {
		d = 10 * time.Second
	}

	return d
}
