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
	libctx "github.com/nabbar/pubnub-go/pnctx"
)

// HereNow formats a per-channel occupancy query.
func HereNow(channels, groups string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		cfg := c.Config()

		q := &query{}
		q.add("channel-group", groups)
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + channelSegment(channels) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// GlobalHereNow formats an occupancy query over every channel of the
// subscribe key.
func GlobalHereNow() Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// WhereNow formats a "which channels is this user on" query; an empty
// userID means the context's own.
func WhereNow(userID string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		cfg := c.Config()

		if userID == "" {
			userID = cfg.UserID
		}

		q := &query{}
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/uuid/" + encodePath(userID) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// SetState formats a presence-state write: state is the raw JSON object
// attached to the user on the given channels.
func SetState(channels, groups string, state []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		if len(state) == 0 {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		q.add("channel-group", groups)
		q.add("state", string(state))
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + channelSegment(channels) +
			"/uuid/" + encodePath(cfg.UserID) + "/data" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// StateGet formats a presence-state read for the given user; an empty
// userID means the context's own.
func StateGet(channels, groups, userID string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if err := requireChannelOrGroup(channels, groups); err != nil {
			return "", nil, err
		}

		cfg := c.Config()

		if userID == "" {
			userID = cfg.UserID
		}

		q := &query{}
		q.add("channel-group", groups)
		commonQuery(q, c)

		path := "/v2/presence/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + channelSegment(channels) +
			"/uuid/" + encodePath(userID) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
