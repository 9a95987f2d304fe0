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

// Package urlfmt holds the per-transaction URL formatters: each public
// function returns a closure that writes the full HTTP path, query
// string and (for POST/PATCH/DELETE kinds) body for one transaction,
// URL-encoding channels, groups, user IDs, auth and parameters. The
// closures are handed to dispatch.Start, which invokes them under the
// context's lock before any state changes.
package urlfmt

import (
	"net/url"
	"strings"

	libctx "github.com/nabbar/pubnub-go/pnctx"
)

// Formatter matches dispatch.URLFormatter without importing it, so the
// dependency runs one way only (dispatch never needs this package). It
// is an alias, not a defined type, so a Formatter value passes straight
// into dispatch.Start.
type Formatter = func(c *libctx.Context) (path string, body []byte, err error)

// sdkIdent is the pnsdk= identity sent on every request.
const sdkIdent = "nabbar-pubnub-go/1.0.0"

// SDKIdent returns the pnsdk= identity sent on every request.
func SDKIdent() string {
	return sdkIdent
}

// query accumulates parameters in insertion order; net/url's Values
// sorts keys on Encode, which would shuffle the documented URL shapes.
type query struct {
	b strings.Builder
}

func (q *query) add(key, val string) {
	if val == "" {
		return
	}

	if q.b.Len() == 0 {
		q.b.WriteByte('?')
	} else {
		q.b.WriteByte('&')
	}

	q.b.WriteString(key)
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(val))
}

func (q *query) String() string {
	return q.b.String()
}

// commonQuery appends the parameters every transaction carries: uuid,
// auth (key or token), and the SDK identity.
func commonQuery(q *query, c *libctx.Context) {
	cfg := c.Config()

	q.add("uuid", cfg.UserID)

	if cfg.AuthToken != "" {
		q.add("auth", cfg.AuthToken)
	} else {
		q.add("auth", cfg.AuthKey)
	}

	q.add("pnsdk", SDKIdent())
}

// encodePath escapes one path segment; a comma-separated channel list
// keeps its commas, each element escaped on its own.
func encodePath(segment string) string {
	parts := strings.Split(segment, ",")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, ",")
}

// checkFits enforces the request-buffer bound: a URL or body that does
// not fit yields TX_BUFF_TOO_SMALL before any state changes.
func checkFits(c *libctx.Context, path string, body []byte) error {
	if len(path)+len(body) > int(c.Config().RequestBufferSize) {
		return ErrorBufferTooSmall.Error(nil)
	}

	return nil
}

// requireChannelOrGroup is the INVALID_CHANNEL guard shared by
// subscribe, leave and the presence transactions.
func requireChannelOrGroup(channels, groups string) error {
	if channels == "" && groups == "" {
		return ErrorInvalidChannel.Error(nil)
	}

	return nil
}

// channelSegment yields the path segment for a channel list that may be
// empty when a group list is given instead: the wire shape uses a
// literal "," placeholder in that case.
func channelSegment(channels string) string {
	if channels == "" {
		return ","
	}

	return encodePath(channels)
}
