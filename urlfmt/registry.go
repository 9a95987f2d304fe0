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

// AddChannelToGroup formats a channel-group registry add.
func AddChannelToGroup(channels, group string) Formatter {
	return channelGroupOp(channels, group, "add")
}

// RemoveChannelFromGroup formats a channel-group registry remove.
func RemoveChannelFromGroup(channels, group string) Formatter {
	return channelGroupOp(channels, group, "remove")
}

func channelGroupOp(channels, group, op string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channels == "" || group == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		q.add(op, channels)
		commonQuery(q, c)

		path := "/v1/channel-registration/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel-group/" + encodePath(group) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// ListChannelGroup formats a channel-group membership listing.
func ListChannelGroup(group string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if group == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v1/channel-registration/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel-group/" + encodePath(group) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// RemoveChannelGroup formats a whole-group removal.
func RemoveChannelGroup(group string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if group == "" {
			return "", nil, ErrorInvalidChannel.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v1/channel-registration/sub-key/" + encodePath(cfg.SubscribeKey) +
			"/channel-group/" + encodePath(group) + "/remove" + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
