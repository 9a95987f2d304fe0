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

// Package subscribe holds the long-poll cursor and the message iteration
// over a subscribe response body. The v2 body is a JSON object carrying
// the next timetoken/region under "t" and the message array under "m";
// the v1 body is a bare JSON array. Field extraction goes through gjson
// rather than a hand-rolled tokenizer.
package subscribe

// InitialTimetoken is the cursor value of a context that has never
// completed a subscribe. Every completed subscribe replaces it with the
// server-assigned value.
const InitialTimetoken = "0"

// MaxTimetokenLen bounds the accepted timetoken string; a longer value
// in a response is treated as malformed.
const MaxTimetokenLen = 64

// Cursor marks the last-seen point in the channel's message stream: an
// opaque server-assigned timetoken paired with an integer region
// selecting a server shard.
type Cursor struct {
	Timetoken string
	Region    int64
}

// NewCursor returns the cursor of a fresh subscription.
func NewCursor() Cursor {
	return Cursor{Timetoken: InitialTimetoken}
}

// Fresh reports whether no subscribe has completed on this cursor yet.
func (c Cursor) Fresh() bool {
	return c.Timetoken == InitialTimetoken || c.Timetoken == ""
}
