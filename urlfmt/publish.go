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
	"bytes"
	"compress/gzip"

	libctx "github.com/nabbar/pubnub-go/pnctx"
)

// Publish formats a publish transaction: the message travels as the
// POST body. A nil or empty message is rejected before any state
// changes; channel-name validity is the server's call (a bad name comes
// back as PUBLISH_FAILED with a parseable sub-reason).
func Publish(channel string, message []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		if len(message) == 0 {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/publish/" + encodePath(cfg.PublishKey) +
			"/" + encodePath(cfg.SubscribeKey) +
			"/0/" + encodePath(channel) + "/0" + q.String()

		if err := checkFits(c, path, message); err != nil {
			return "", nil, err
		}

		return path, message, nil
	}
}

// PublishGzip is the compressed publish variant: the body is
// gzip-compressed and the request flagged accordingly through the
// store=, norep= untouched query plus the Content-Encoding header set
// by the caller. Compression that grows the payload falls back to the
// plain body.
func PublishGzip(channel string, message []byte) Formatter {
	plain := Publish(channel, message)

	return func(c *libctx.Context) (string, []byte, error) {
		path, body, err := plain(c)
		if err != nil {
			return "", nil, err
		}

		var buf bytes.Buffer

		w := gzip.NewWriter(&buf)
		if _, err = w.Write(body); err != nil {
			_ = w.Close()
			return path, body, nil
		}
		if err = w.Close(); err != nil || buf.Len() >= len(body) {
			return path, body, nil
		}

		if err = checkFits(c, path, buf.Bytes()); err != nil {
			return "", nil, err
		}

		return path, buf.Bytes(), nil
	}
}

// Signal formats a lightweight signal: the message rides in the path,
// no body.
func Signal(channel string, message []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/signal/" + encodePath(cfg.PublishKey) +
			"/" + encodePath(cfg.SubscribeKey) +
			"/0/" + encodePath(channel) +
			"/0/" + encodePath(string(message)) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
