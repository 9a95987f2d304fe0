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

package urlfmt

import (
	"strconv"

	libctx "github.com/nabbar/pubnub-go/pnctx"
)

// DefaultHistoryCount is used when HistoryOptions.Count is zero.
const DefaultHistoryCount = 100

// HistoryOptions carries the optional query parameters of the v2
// history transaction.
type HistoryOptions struct {
	Count       int
	Reverse     bool
	IncludeMeta bool
	Start       string
	End         string
}

// History formats a legacy history fetch: the message count rides in
// the path.
func History(channel string, count int) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		if count <= 0 {
			count = DefaultHistoryCount
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/history/" + encodePath(cfg.SubscribeKey) +
			"/" + encodePath(channel) + "/0/" + strconv.Itoa(count) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// HistoryV2 formats the advanced history fetch with its extra query
// parameters (count, reverse, include_meta, start/end timetokens).
func HistoryV2(channel string, opts HistoryOptions) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		cfg := c.Config()

		q := &query{}

		count := opts.Count
		if count <= 0 {
			count = DefaultHistoryCount
		}

		q.add("count", strconv.Itoa(count))

		if opts.Reverse {
			q.add("reverse", "true")
		}

		if opts.IncludeMeta {
			q.add("include_meta", "true")
		}

		q.add("start", opts.Start)
		q.add("end", opts.End)
		commonQuery(q, c)

		path := "/v2/history/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + encodePath(channel) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// Time formats the server-clock query.
func Time() Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		q := &query{}
		q.add("pnsdk", SDKIdent())

		path := "/time/0" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
