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
	"github.com/tidwall/gjson"
)

// Message is one delivered message, extracted from the "m" array of a v2
// subscribe response.
type Message struct {
	// Payload is the raw JSON of the "d" field.
	Payload string
	// Channel is the "c" field without its surrounding quotes.
	Channel string
	// Match is the "b" field: the subscription match, a group name when
	// delivery came through a channel group.
	Match string
	// Timetoken is the publish timetoken "p.t" of this message.
	Timetoken string
	// Metadata is the raw JSON of the "u" field, empty when absent.
	Metadata string
}

// Feed iterates the messages of one v2 subscribe response. Consumption
// is destructive: a message returned by Next is not re-readable.
type Feed struct {
	msgs []gjson.Result
	off  int
}

// ParseV2 extracts the next cursor and the message feed from a v2
// subscribe body. The timetoken must be present, quoted, non-empty and
// of bounded length; the region must be an integer; "m" must be an
// array. Any deviation returns a nil feed and an error.
func ParseV2(body []byte) (Cursor, *Feed, error) {
	if !gjson.ValidBytes(body) {
		return Cursor{}, nil, ErrorInvalidBody.Error(nil)
	}

	root := gjson.ParseBytes(body)

	tt := root.Get("t.t")
	if tt.Type != gjson.String || tt.Str == "" || len(tt.Str) > MaxTimetokenLen {
		return Cursor{}, nil, ErrorMissingTimetoken.Error(nil)
	}

	tr := root.Get("t.r")
	if tr.Exists() && tr.Type != gjson.Number {
		return Cursor{}, nil, ErrorMissingRegion.Error(nil)
	}

	m := root.Get("m")
	if !m.IsArray() {
		return Cursor{}, nil, ErrorMissingMessages.Error(nil)
	}

	cur := Cursor{Timetoken: tt.Str, Region: tr.Int()}

	return cur, &Feed{msgs: m.Array()}, nil
}

// Len returns the number of messages not yet consumed.
func (f *Feed) Len() int {
	if f == nil {
		return 0
	}

	return len(f.msgs) - f.off
}

// Next consumes one message. When the feed is exhausted it returns an
// empty Message and false.
func (f *Feed) Next() (Message, bool) {
	if f == nil || f.off >= len(f.msgs) {
		return Message{}, false
	}

	raw := f.msgs[f.off]
	f.off++

	msg := Message{
		Payload:   raw.Get("d").Raw,
		Channel:   raw.Get("c").Str,
		Match:     raw.Get("b").Str,
		Timetoken: raw.Get("p.t").Str,
	}

	if u := raw.Get("u"); u.Exists() {
		msg.Metadata = u.Raw
	}

	return msg, true
}

// Drain consumes and returns every remaining message.
func (f *Feed) Drain() []Message {
	out := make([]Message, 0, f.Len())

	for {
		m, ok := f.Next()
		if !ok {
			return out
		}

		out = append(out, m)
	}
}
