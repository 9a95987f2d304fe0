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

// Package parser classifies a completed transaction's response body by
// its kind: a closed dispatch table, one entry per txkind, selected at
// body completion by the engine. A parser never mutates the context -
// it returns everything the engine needs to latch (outcome, fresh
// cursor, message feed, publish result) in one Response value.
package parser

import (
	"strings"

	libout "github.com/nabbar/pubnub-go/outcome"
	libsub "github.com/nabbar/pubnub-go/subscribe"
	libkin "github.com/nabbar/pubnub-go/txkind"

	"github.com/tidwall/gjson"
)

// Response is the classification of one response body. Cursor, FeedV2
// and FeedV1 are set only for the subscribe kinds; PublishResult and
// Description only for publish.
type Response struct {
	Outcome libout.Outcome

	Cursor  libsub.Cursor
	HasCursor bool
	FeedV2  *libsub.Feed
	FeedV1  *libsub.FeedV1

	// PublishResult is the raw server reply to a publish.
	PublishResult string
	// Description is the server's free-form message: the publish
	// sub-reason on PUBLISH_FAILED, the error message on an error body.
	Description string

	Err error
}

// Parse classifies body for the given transaction kind. statusCode is
// the already-parsed HTTP status; the non-2xx override to HTTP_ERROR is
// the engine's job, not the parser's, except for publish where the
// server encodes the sub-reason in the body of a 4xx reply.
func Parse(kind libkin.Kind, statusCode int, body []byte) Response {
	switch kind {
	case libkin.Publish:
		return parsePublish(statusCode, body)
	case libkin.Time:
		return parseTime(body)
	case libkin.Subscribe:
		return parseSubscribeV1(body)
	case libkin.SubscribeV2:
		return parseSubscribeV2(body)
	case libkin.History, libkin.HistoryV2:
		return parseHistory(kind, body)
	case libkin.Leave, libkin.Heartbeat, libkin.HereNow, libkin.GlobalHereNow,
		libkin.WhereNow, libkin.SetState, libkin.StateGet, libkin.Signal:
		return parsePresence(body)
	case libkin.AddChannelToGroup, libkin.RemoveChannelFromGroup,
		libkin.ListChannelGroup, libkin.RemoveChannelGroup:
		return parseChannelRegistry(body)
	case libkin.GrantToken, libkin.RevokeToken, libkin.ObjectOps,
		libkin.MessageActionAdd, libkin.MessageActionOps:
		return parseEnvelope(body)
	default:
		return Response{Outcome: libout.InternalError, Err: ErrorUnknownKind.Error(nil)}
	}
}

// parsePublish handles [1,"Sent","timetoken"] and the failure shape
// [0,"description"] (or an error JSON object on a 4xx). PUBLISH_FAILED
// never poisons the context; the next transaction may proceed.
func parsePublish(statusCode int, body []byte) Response {
	if !gjson.ValidBytes(body) {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	root := gjson.ParseBytes(body)
	res := Response{PublishResult: strings.TrimSpace(string(body))}

	if root.IsArray() {
		parts := root.Array()
		if len(parts) >= 2 && parts[0].Type == gjson.Number {
			if parts[0].Int() == 1 {
				res.Outcome = libout.OK
				return res
			}

			res.Outcome = libout.PublishFailed
			res.Description = parts[1].Str
			return res
		}

		res.Outcome = libout.FormatError
		res.Err = ErrorBadShape.Error(nil)
		return res
	}

	// some rejects come back as {"error": true, "message": "..."}
	if root.IsObject() {
		res.Outcome = libout.PublishFailed
		res.Description = root.Get("message").Str
		if res.Description == "" {
			res.Description = root.Get("error_message").Str
		}
		return res
	}

	res.Outcome = libout.FormatError
	res.Err = ErrorBadShape.Error(nil)
	return res
}

// parseTime handles [17193163200000000].
func parseTime(body []byte) Response {
	root := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !root.IsArray() || len(root.Array()) != 1 {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	return Response{Outcome: libout.OK}
}

func parseSubscribeV2(body []byte) Response {
	cur, feed, err := libsub.ParseV2(body)
	if err != nil {
		// parse failures do not consume the cursor
		return Response{Outcome: libout.FormatError, Err: err}
	}

	return Response{Outcome: libout.OK, Cursor: cur, HasCursor: true, FeedV2: feed}
}

func parseSubscribeV1(body []byte) Response {
	cur, feed, err := libsub.ParseV1(body)
	if err != nil {
		return Response{Outcome: libout.FormatError, Err: err}
	}

	return Response{Outcome: libout.OK, Cursor: cur, HasCursor: true, FeedV1: feed}
}

// parseHistory accepts the legacy array shape for History and the
// envelope object for HistoryV2.
func parseHistory(kind libkin.Kind, body []byte) Response {
	if !gjson.ValidBytes(body) {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	root := gjson.ParseBytes(body)

	if kind == libkin.History {
		if !root.IsArray() {
			return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
		}
		return Response{Outcome: libout.OK}
	}

	if !root.IsObject() || !root.Get("channels").Exists() {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	return Response{Outcome: libout.OK}
}

// parsePresence handles the {"status": 200, "message": "OK", ...}
// envelope shared by leave, heartbeat, here-now, where-now and
// state get/set. Older presence replies on here-now come back as a bare
// object with "uuids"/"occupancy", accepted too.
func parsePresence(body []byte) Response {
	if !gjson.ValidBytes(body) {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() && !root.IsArray() {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	res := Response{Outcome: libout.OK}

	if msg := root.Get("message"); msg.Exists() && root.Get("error").Bool() {
		res.Description = msg.Str
	}

	return res
}

// parseChannelRegistry handles the channel-group admin envelope.
func parseChannelRegistry(body []byte) Response {
	if !gjson.ValidBytes(body) {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	res := Response{Outcome: libout.OK}

	if root.Get("error").Bool() {
		res.Description = root.Get("message").Str
	}

	return res
}

// parseEnvelope is the minimal wire-shape check for the object, action
// and token transactions: a valid JSON document, error message captured
// when flagged. Deep semantics are out of scope.
func parseEnvelope(body []byte) Response {
	if len(body) == 0 {
		return Response{Outcome: libout.OK}
	}

	if !gjson.ValidBytes(body) {
		return Response{Outcome: libout.FormatError, Err: ErrorBadShape.Error(nil)}
	}

	res := Response{Outcome: libout.OK}

	root := gjson.ParseBytes(body)
	if root.IsObject() && root.Get("error").Exists() {
		if e := root.Get("error"); e.IsObject() {
			res.Description = e.Get("message").Str
		} else if e.Bool() {
			res.Description = root.Get("error_message").Str
		}
	}

	return res
}
