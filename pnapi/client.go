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

package pnapi

import (
	"context"
	"strings"
	"time"

	libdsp "github.com/nabbar/pubnub-go/dispatch"
	liberr "github.com/nabbar/pubnub-go/errors"
	libout "github.com/nabbar/pubnub-go/outcome"
	libcfg "github.com/nabbar/pubnub-go/pnconfig"
	libctx "github.com/nabbar/pubnub-go/pnctx"
	libsub "github.com/nabbar/pubnub-go/subscribe"
	libkin "github.com/nabbar/pubnub-go/txkind"
	libfmt "github.com/nabbar/pubnub-go/urlfmt"

	libuid "github.com/hashicorp/go-uuid"
	"github.com/tidwall/gjson"
)

// Client is one connection identity: a Context plus the shared
// Environment driving it. One transaction at a time per client; a
// second start while one is in flight returns InProgress.
type Client struct {
	env *Environment
	ctx *libctx.Context
}

// NewClient validates cfg, fills a missing user ID with a generated
// one, and binds a fresh idle context to the environment.
func (e *Environment) NewClient(cfg libcfg.Config) (*Client, liberr.Error) {
	if cfg.UserID == "" {
		if id, err := libuid.GenerateUUID(); err == nil {
			cfg.UserID = "pn-" + id
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		env: e,
		ctx: libctx.New(cfg, e.log),
	}, nil
}

// Context exposes the underlying engine context.
func (c *Client) Context() *libctx.Context { return c.ctx }

func (c *Client) start(ctx context.Context, kind libkin.Kind, f libfmt.Formatter) (libout.Outcome, liberr.Error) {
	o, err := libdsp.Start(ctx, c.env.rt, c.ctx, kind, f)

	if c.ctx.Config().Blocking {
		c.afterCompletion(kind, o)
	}

	return o, err
}

// afterCompletion handles the bookkeeping a terminal outcome triggers:
// arming the paired thumper after a successful subscribe/heartbeat.
func (c *Client) afterCompletion(kind libkin.Kind, o libout.Outcome) {
	if o != libout.OK {
		return
	}

	switch kind {
	case libkin.Subscribe, libkin.SubscribeV2, libkin.Heartbeat:
		c.env.pool.Rearm(c.ctx)
	}
}

// Await blocks until the in-flight transaction reaches a terminal
// outcome (or ctx expires) and returns it. It is the synchronous
// variant's only blocking call.
func (c *Client) Await(ctx context.Context) (libout.Outcome, int, error) {
	o, status, err := c.ctx.Await(ctx)

	c.afterCompletion(c.ctx.Kind(), o)

	return o, status, err
}

// Cancel aborts the in-flight transaction; a subsequent Await observes
// Cancelled. Safe to call when idle.
func (c *Client) Cancel() {
	libdsp.Cancel(c.ctx)
}

// Free cancels anything in flight and waits up to timeout for release.
func (c *Client) Free(ctx context.Context, timeout time.Duration) error {
	c.DisableAutoHeartbeat()

	return c.ctx.Free(ctx, timeout)
}

// LastResult returns the outcome and HTTP status of the most recent
// transaction.
func (c *Client) LastResult() (libout.Outcome, int, error) {
	return c.ctx.LastResult()
}

// LastPublishResult returns the raw server reply of the last publish.
func (c *Client) LastPublishResult() string {
	return c.ctx.LastPublishResult()
}

// ErrorMessage returns the server's free-form error message, when one
// was parseable from the last response body.
func (c *Client) ErrorMessage() string {
	return c.ctx.ErrorMessage()
}

// Publish sends message (raw JSON) to channel.
func (c *Client) Publish(ctx context.Context, channel string, message []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.Publish, libfmt.Publish(channel, message))
}

// PublishGzip is Publish with a gzip-compressed body.
func (c *Client) PublishGzip(ctx context.Context, channel string, message []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.Publish, libfmt.PublishGzip(channel, message))
}

// Signal sends a lightweight signal to channel.
func (c *Client) Signal(ctx context.Context, channel string, message []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.Signal, libfmt.Signal(channel, message))
}

// Subscribe long-polls the given channels and groups from the current
// cursor. On success the cursor moves to the server-assigned point and
// the received messages become available through NextMessage.
func (c *Client) Subscribe(ctx context.Context, channels, groups string) (libout.Outcome, liberr.Error) {
	o, err := c.start(ctx, libkin.SubscribeV2, libfmt.SubscribeV2(channels, groups))

	if o == libout.Started || o == libout.OK {
		c.ctx.Lock()
		c.ctx.SetSubscription(channels, groups)
		c.ctx.Unlock()
	}

	return o, err
}

// SubscribeV1 is the legacy single-list subscribe.
func (c *Client) SubscribeV1(ctx context.Context, channels string) (libout.Outcome, liberr.Error) {
	o, err := c.start(ctx, libkin.Subscribe, libfmt.SubscribeV1(channels))

	if o == libout.Started || o == libout.OK {
		c.ctx.Lock()
		c.ctx.SetSubscription(channels, "")
		c.ctx.Unlock()
	}

	return o, err
}

// NextMessage consumes one message from the last v2 subscribe
// response; ok is false once the response is exhausted.
func (c *Client) NextMessage() (libsub.Message, bool) {
	return c.ctx.MessageV2()
}

// Messages consumes and returns every remaining message of the last v2
// subscribe response.
func (c *Client) Messages() []libsub.Message {
	return c.ctx.DrainV2()
}

// NextMessageV1 consumes one message of the last v1 subscribe
// response, with its per-message channel on a multi-channel subscribe.
func (c *Client) NextMessageV1() (payload string, channel string, ok bool) {
	return c.ctx.MessageV1()
}

// Leave announces departure from the given channels/groups; empty
// arguments leave everything the context is subscribed to. The stored
// subscription lists shrink accordingly.
func (c *Client) Leave(ctx context.Context, channels, groups string) (libout.Outcome, liberr.Error) {
	o, err := c.start(ctx, libkin.Leave, libfmt.Leave(channels, groups))

	if o == libout.Started || o == libout.OK {
		c.ctx.Lock()
		if channels == "" && groups == "" {
			c.ctx.Leave(nil, nil)
		} else {
			c.ctx.Leave(splitList(channels), splitList(groups))
		}
		c.ctx.Unlock()
	}

	return o, err
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}

// Heartbeat asserts presence on the given channels and groups.
func (c *Client) Heartbeat(ctx context.Context, channels, groups string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.Heartbeat, libfmt.Heartbeat(channels, groups))
}

// Time queries the server clock.
func (c *Client) Time(ctx context.Context) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.Time, libfmt.Time())
}

// History fetches up to count stored messages of channel.
func (c *Client) History(ctx context.Context, channel string, count int) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.History, libfmt.History(channel, count))
}

// HistoryV2 is the advanced history fetch.
func (c *Client) HistoryV2(ctx context.Context, channel string, opts libfmt.HistoryOptions) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.HistoryV2, libfmt.HistoryV2(channel, opts))
}

// HereNow lists the users present on the given channels/groups.
func (c *Client) HereNow(ctx context.Context, channels, groups string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.HereNow, libfmt.HereNow(channels, groups))
}

// GlobalHereNow lists presence across every channel of the key.
func (c *Client) GlobalHereNow(ctx context.Context) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.GlobalHereNow, libfmt.GlobalHereNow())
}

// WhereNow lists the channels a user is present on; empty userID means
// this client's own.
func (c *Client) WhereNow(ctx context.Context, userID string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.WhereNow, libfmt.WhereNow(userID))
}

// SetState attaches a state document to this user on the given
// channels/groups.
func (c *Client) SetState(ctx context.Context, channels, groups string, state []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.SetState, libfmt.SetState(channels, groups, state))
}

// StateGet reads the state document of userID (or this client's own).
func (c *Client) StateGet(ctx context.Context, channels, groups, userID string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.StateGet, libfmt.StateGet(channels, groups, userID))
}

// AddChannelsToGroup registers channels into the named group.
func (c *Client) AddChannelsToGroup(ctx context.Context, channels, group string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.AddChannelToGroup, libfmt.AddChannelToGroup(channels, group))
}

// RemoveChannelsFromGroup removes channels from the named group.
func (c *Client) RemoveChannelsFromGroup(ctx context.Context, channels, group string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.RemoveChannelFromGroup, libfmt.RemoveChannelFromGroup(channels, group))
}

// ListChannelGroup lists the channels of the named group.
func (c *Client) ListChannelGroup(ctx context.Context, group string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.ListChannelGroup, libfmt.ListChannelGroup(group))
}

// RemoveChannelGroup deletes the whole named group.
func (c *Client) RemoveChannelGroup(ctx context.Context, group string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.RemoveChannelGroup, libfmt.RemoveChannelGroup(group))
}

// GrantToken submits a permission document and returns (through
// LastResult/ReplyBody) the signed token.
func (c *Client) GrantToken(ctx context.Context, permissions []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.GrantToken, libfmt.GrantToken(permissions))
}

// RevokeToken invalidates a previously granted token.
func (c *Client) RevokeToken(ctx context.Context, token string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.RevokeToken, libfmt.RevokeToken(token))
}

// ObjectOp performs a PATCH on an object-API resource path fragment.
func (c *Client) ObjectOp(ctx context.Context, resource string, document []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.ObjectOps, libfmt.ObjectOp(resource, document))
}

// AddMessageAction attaches an action document to a stored message.
func (c *Client) AddMessageAction(ctx context.Context, channel, messageTT string, action []byte) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.MessageActionAdd, libfmt.AddMessageAction(channel, messageTT, action))
}

// MessageActionTimetoken returns the action timetoken assigned by the
// server to the most recent AddMessageAction. Calling it after any
// other transaction kind is a usage error.
func (c *Client) MessageActionTimetoken() (string, liberr.Error) {
	if c.ctx.Kind() != libkin.MessageActionAdd {
		return "", ErrorNoActionResult.Error(nil)
	}

	tt := gjson.GetBytes(c.ctx.ReplyBody(), "data.actionTimetoken")
	if tt.Str == "" {
		return "", ErrorNoActionResult.Error(nil)
	}

	return tt.Str, nil
}

// RemoveMessageAction deletes a message action.
func (c *Client) RemoveMessageAction(ctx context.Context, channel, messageTT, actionTT string) (libout.Outcome, liberr.Error) {
	return c.start(ctx, libkin.MessageActionOps, libfmt.RemoveMessageAction(channel, messageTT, actionTT))
}

// EnableAutoHeartbeat claims a thumper that keeps presence alive for
// this client every period.
func (c *Client) EnableAutoHeartbeat(period time.Duration) error {
	return c.env.pool.Enable(c.ctx, period)
}

// DisableAutoHeartbeat releases the thumper, cancelling any thump in
// flight.
func (c *Client) DisableAutoHeartbeat() {
	c.env.pool.Disable(c.ctx)
}
