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

// SubscribeV2 formats a v2 long-poll subscribe. The closure reads the
// context's current cursor at dispatch time, under the context's lock,
// so a re-subscribe after completion automatically carries the fresh
// timetoken and region.
func SubscribeV2(channels, groups string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		cfg := c.Config()
		tt, region := c.Cursor()

		q := &query{}
		q.add("tt", tt)

		if region != 0 {
			q.add("tr", strconv.FormatInt(region, 10))
		}

		q.add("channel-group", groups)
		q.add("uuid", cfg.UserID)

		if cfg.AuthToken != "" {
			q.add("auth", cfg.AuthToken)
		} else {
			q.add("auth", cfg.AuthKey)
		}

		q.add("filter-expr", cfg.FilterExpression)

		if cfg.PresenceTimeout > 0 {
			q.add("heartbeat", strconv.FormatUint(uint64(cfg.PresenceTimeout), 10))
		}

		q.add("pnsdk", SDKIdent())

		path := "/v2/subscribe/" + encodePath(cfg.SubscribeKey) +
			"/" + channelSegment(channels) + "/0" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// SubscribeV1 formats a legacy subscribe: the timetoken rides in the
// path rather than the query.
func SubscribeV1(channels string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, ""); err != nil {
			return "", nil, err
		}

		cfg := c.Config()
		tt, _ := c.Cursor()

		q := &query{}
		commonQuery(q, c)

		path := "/subscribe/" + encodePath(cfg.SubscribeKey) +
			"/" + encodePath(channels) + "/0/" + encodePath(tt) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// Leave formats a presence leave for the given channels and groups. An
// empty pair means "leave everything the context is subscribed to", so
// the stored lists are used instead.
func Leave(channels, groups string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channels == "" && groups == "" {
			channels = c.Channels()
			groups = c.Groups()
		}

		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		cfg := c.Config()

		q := &query{}
		q.add("channel-group", groups)
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + channelSegment(channels) + "/leave" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// Heartbeat formats a presence heartbeat asserting liveness on the
// given channels and groups.
func Heartbeat(channels, groups string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		cfg := c.Config()

		q := &query{}
		q.add("channel-group", groups)

		if cfg.PresenceTimeout > 0 {
			q.add("heartbeat", strconv.FormatUint(uint64(cfg.PresenceTimeout), 10))
		}

		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + channelSegment(channels) + "/heartbeat" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
