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

package subscribe

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FeedV1 iterates the messages of a v1 subscribe response. The body is a
// JSON array: [ [messages...], "timetoken" ] with an optional trailing
// comma-separated channel list when the subscribe spanned more than one
// channel.
type FeedV1 struct {
	msgs     []gjson.Result
	channels []string
	off      int
}

// ParseV1 extracts the cursor (region stays untouched in v1) and the
// message feed from a v1 subscribe body.
func ParseV1(body []byte) (Cursor, *FeedV1, error) {
	if !gjson.ValidBytes(body) {
		return Cursor{}, nil, ErrorInvalidBody.Error(nil)
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return Cursor{}, nil, ErrorInvalidBody.Error(nil)
	}

	parts := root.Array()
	if len(parts) < 2 || !parts[0].IsArray() || parts[1].Type != gjson.String {
		return Cursor{}, nil, ErrorInvalidBody.Error(nil)
	}

	tt := parts[1].Str
	if tt == "" || len(tt) > MaxTimetokenLen {
		return Cursor{}, nil, ErrorMissingTimetoken.Error(nil)
	}

	f := &FeedV1{msgs: parts[0].Array()}

	if len(parts) > 2 && parts[2].Type == gjson.String && parts[2].Str != "" {
		f.channels = strings.Split(parts[2].Str, ",")
	}

	return Cursor{Timetoken: tt}, f, nil
}

// Len returns the number of messages not yet consumed.
func (f *FeedV1) Len() int {
	if f == nil {
		return 0
	}

	return len(f.msgs) - f.off
}

// Next consumes one message, returning its raw JSON and, when the
// subscribe spanned more than one channel, the channel it arrived on.
// The channel is empty for a single-channel subscribe.
func (f *FeedV1) Next() (payload string, channel string, ok bool) {
	if f == nil || f.off >= len(f.msgs) {
		return "", "", false
	}

	payload = f.msgs[f.off].Raw

	if f.off < len(f.channels) {
		channel = f.channels[f.off]
	}

	f.off++

	return payload, channel, true
}
