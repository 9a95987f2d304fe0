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

// GrantToken formats an access-token grant: the permission document is
// the POST body, built by the caller. Only the wire-shape routing is
// handled here; permission semantics live server-side.
func GrantToken(permissions []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if len(permissions) == 0 {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v3/pam/" + encodePath(cfg.SubscribeKey) + "/grant" + q.String()

		if err := checkFits(c, path, permissions); err != nil {
			return "", nil, err
		}

		return path, permissions, nil
	}
}

// RevokeToken formats a token revocation (DELETE, token in the path).
func RevokeToken(token string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if token == "" {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v3/pam/" + encodePath(cfg.SubscribeKey) +
			"/grant/" + encodePath(token) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}

// ObjectOp formats an object-API update: a PATCH on the given resource
// path fragment (e.g. "uuids/alice") carrying the partial document.
func ObjectOp(resource string, document []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if resource == "" {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v2/objects/" + encodePath(cfg.SubscribeKey) +
			"/" + resource + q.String()

		if err := checkFits(c, path, document); err != nil {
			return "", nil, err
		}

		return path, document, nil
	}
}

// AddMessageAction formats a message-action creation: a POST on the
// message timetoken carrying the action document (type + value).
func AddMessageAction(channel, messageTT string, action []byte) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" || messageTT == "" {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		if len(action) == 0 {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v1/message-actions/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + encodePath(channel) +
			"/message/" + encodePath(messageTT) + q.String()

		if err := checkFits(c, path, action); err != nil {
			return "", nil, err
		}

		return path, action, nil
	}
}

// RemoveMessageAction formats a message-action removal: DELETE on the
// message timetoken plus the action timetoken.
func RemoveMessageAction(channel, messageTT, actionTT string) Formatter {
	return func(c *libctx.Context) (string, []byte, error) {
		if channel == "" || messageTT == "" || actionTT == "" {
			return "", nil, ErrorEmptyMessage.Error(nil)
		}

		cfg := c.Config()

		q := &query{}
		commonQuery(q, c)

		path := "/v1/message-actions/" + encodePath(cfg.SubscribeKey) +
			"/channel/" + encodePath(channel) +
			"/message/" + encodePath(messageTT) +
			"/action/" + encodePath(actionTT) + q.String()

		if err := checkFits(c, path, nil); err != nil {
			return "", nil, err
		}

		return path, nil, nil
	}
}
