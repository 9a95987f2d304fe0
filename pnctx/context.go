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

// Package pnctx is the Context entity: the central handle an application
// holds for one logical connection identity. It owns a socket, a
// request/reply buffer pair, a transaction kind, cursor state, and the
// exclusive lock all mutation of those happens under.
package pnctx

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"sync"
	"time"

	liblog "github.com/nabbar/pubnub-go/logger"
	libfsm "github.com/nabbar/pubnub-go/netfsm"
	libout "github.com/nabbar/pubnub-go/outcome"
	libprs "github.com/nabbar/pubnub-go/parser"
	libcfg "github.com/nabbar/pubnub-go/pnconfig"
	libsub "github.com/nabbar/pubnub-go/subscribe"
	libtpt "github.com/nabbar/pubnub-go/transport"
	libkin "github.com/nabbar/pubnub-go/txkind"

	liberr "github.com/nabbar/pubnub-go/errors"
)

// ThumperUnassigned is the sentinel value of ThumperIndex when a context
// has no auto-heartbeat thumper claimed for it.
const ThumperUnassigned int32 = -1

// Context is the engine's central entity. All mutation happens under its
// own Mutex; the scheduler and the auto-heartbeat module acquire it
// before touching any field below.
type Context struct {
	mu sync.Mutex

	identity libcfg.Identity
	cfg      libcfg.Config
	log      liblog.FuncLog

	sock     libtpt.Socket
	machine  *libfsm.Machine
	lastAddr string

	reqCap   int
	replyCap int

	kind libkin.Kind

	cursor   libsub.Cursor
	channels string
	groups   string

	feedV2 *libsub.Feed
	feedV1 *libsub.FeedV1

	lastOutcome   libout.Outcome
	lastStatus    int
	lastErr       error
	lastPublish   string
	lastErrDetail string

	done     chan struct{}
	timedOut bool

	thumperIndex int32
}

// New allocates a Context in the Idle state.
func New(cfg libcfg.Config, log liblog.FuncLog) *Context {
	if cfg.RequestBufferSize == 0 {
		cfg.RequestBufferSize = libcfg.Default().RequestBufferSize
	}
	if cfg.ReplyBufferSize == 0 {
		cfg.ReplyBufferSize = libcfg.Default().ReplyBufferSize
	}

	c := &Context{
		identity:     cfg.Identity,
		cfg:          cfg,
		log:          log,
		reqCap:       int(cfg.RequestBufferSize),
		replyCap:     int(cfg.ReplyBufferSize),
		cursor:       libsub.NewCursor(),
		thumperIndex: ThumperUnassigned,
		done:         closedChan(),
	}

	return c
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Lock and Unlock expose the context's exclusive lock so dispatch and
// the scheduler can serialize access.
func (c *Context) Lock()   { c.mu.Lock() }
func (c *Context) Unlock() { c.mu.Unlock() }

func (c *Context) Identity() libcfg.Identity { return c.identity }
func (c *Context) Config() libcfg.Config     { return c.cfg }

// SetConfig replaces the mutable configuration. The immutable identity
// is kept from creation time: a caller trying to swap keys under a
// running context gets the original identity back (the auto-heartbeat
// pool detects key changes by comparing identities, not configs).
func (c *Context) SetConfig(cfg libcfg.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg.Identity = c.identity
	c.cfg = cfg
}

func (c *Context) Logger() liblog.Logger {
	if c.log != nil {
		return c.log()
	}

	return liblog.New(nil)
}

// State returns the underlying FSM state, Null if no machine exists.
func (c *Context) State() libfsm.State {
	if c.machine == nil {
		return libfsm.Idle
	}

	return c.machine.State()
}

// CanStartTransaction reports whether a new transaction may begin: only
// from Idle or KeepAliveIdle.
func (c *Context) CanStartTransaction() bool {
	return c.State().CanStartTransaction()
}

func (c *Context) Kind() libkin.Kind { return c.kind }

// Cursor returns the subscribe cursor.
func (c *Context) Cursor() (timetoken string, region int64) {
	return c.cursor.Timetoken, c.cursor.Region
}

func (c *Context) SetCursor(timetoken string, region int64) {
	c.cursor = libsub.Cursor{Timetoken: timetoken, Region: region}
}

func (c *Context) Channels() string { return c.channels }
func (c *Context) Groups() string   { return c.groups }

// SetSubscription stores owned copies of the channel and group lists a
// subscribe or heartbeat asserted, for the auto-heartbeat module and
// for an argument-less leave.
func (c *Context) SetSubscription(channels, groups string) {
	c.channels = channels
	c.groups = groups
}

// Leave trims the stored subscription lists: with no arguments it
// clears both; with explicit arguments it removes each leaving entry
// from the stored comma-separated list, releasing the storage when a
// list becomes empty.
func (c *Context) Leave(channels, groups []string) {
	if len(channels) == 0 && len(groups) == 0 {
		c.channels = ""
		c.groups = ""
		return
	}

	c.channels = removeEntries(c.channels, channels)
	c.groups = removeEntries(c.groups, groups)
}

func removeEntries(list string, leaving []string) string {
	if list == "" || len(leaving) == 0 {
		return list
	}

	leave := make(map[string]bool, len(leaving))
	for _, l := range leaving {
		leave[l] = true
	}

	kept := make([]string, 0)
	for _, e := range splitNonEmpty(list) {
		if !leave[e] {
			kept = append(kept, e)
		}
	}

	out := ""
	for i, e := range kept {
		if i > 0 {
			out += ","
		}
		out += e
	}

	return out
}

func splitNonEmpty(s string) []string {
	out := make([]string, 0)
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func (c *Context) ThumperIndex() int32       { return c.thumperIndex }
func (c *Context) SetThumperIndex(idx int32) { c.thumperIndex = idx }
func (c *Context) HasThumper() bool          { return c.thumperIndex != ThumperUnassigned }

// LastResult returns the latched classification, HTTP status and causal
// error of the most recent transaction.
func (c *Context) LastResult() (libout.Outcome, int, error) {
	return c.lastOutcome, c.lastStatus, c.lastErr
}

// LastPublishResult is the raw server reply of the most recent publish.
func (c *Context) LastPublishResult() string {
	return c.lastPublish
}

// ErrorMessage is the server's free-form message on a server-reported
// error (publish sub-reason, registry error message).
func (c *Context) ErrorMessage() string {
	return c.lastErrDetail
}

// ReplyBody returns the accumulated reply body of the most recent (or
// in-flight) transaction.
func (c *Context) ReplyBody() []byte {
	if c.machine == nil {
		return nil
	}

	return c.machine.Result().Body
}

// MessageV2 consumes one message from the last v2 subscribe response.
// Consumption is destructive.
func (c *Context) MessageV2() (libsub.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.feedV2.Next()
}

// MessageV1 consumes one message from the last v1 subscribe response,
// returning its raw JSON and, on a multi-channel subscribe, the channel
// it arrived on.
func (c *Context) MessageV1() (payload string, channel string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.feedV1.Next()
}

// DrainV2 consumes every remaining message of the last v2 response.
func (c *Context) DrainV2() []libsub.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.feedV2.Drain()
}

func (c *Context) setOutcome(o libout.Outcome, status int, err error) {
	c.lastOutcome = o
	c.lastStatus = status
	c.lastErr = err

	if o.Terminal() {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
}

// Begin creates the netfsm.Machine for a new transaction and kicks it
// into the connect phase. Callers must already hold the context's lock
// and must have already confirmed CanStartTransaction().
func (c *Context) Begin(kind libkin.Kind, path string, body []byte) {
	c.kind = kind
	c.done = make(chan struct{})
	c.timedOut = false
	c.feedV2 = nil
	c.feedV1 = nil
	c.lastErrDetail = ""

	req := libfsm.Request{
		Method:      kind.Method(),
		Path:        path,
		Host:        c.cfg.Origin,
		Body:        body,
		SSL:         c.cfg.SSL,
		TLSFallback: c.cfg.TLSFallbackOnHandshakeError,
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Origin, c.effectivePort())

	if c.cfg.Proxy.Enabled() {
		addr = fmt.Sprintf("%s:%d", c.cfg.Proxy.Host, c.cfg.Proxy.Port)
		req.ProxyAuth = proxyBasicAuth(c.cfg.Proxy)
	}

	// an open keep-alive idle socket to the same address is reused;
	// anything else gets a fresh dial.
	reuse := c.machine != nil && c.machine.State() == libfsm.KeepAliveIdle &&
		c.sock != nil && !c.sock.Closed() && addr == c.lastAddr

	if !reuse {
		c.sock = libtpt.New(c.dialer(), "tcp", addr)
	}

	c.lastAddr = addr

	if req.SSL {
		req.TLSConfig = c.tlsConfig()
		req.ServerName = c.cfg.Origin
	}

	c.machine = libfsm.New(c.sock, req, c.replyCap)
	c.machine.Start()

	c.setOutcome(libout.Started, 0, nil)
}

func proxyBasicAuth(p *libcfg.Proxy) string {
	if p == nil || p.User == "" {
		return ""
	}

	cred := base64.StdEncoding.EncodeToString([]byte(p.User + ":" + p.Password))

	return "Basic " + cred
}

func (c *Context) effectivePort() uint16 {
	if c.cfg.Port != 0 {
		return c.cfg.Port
	}
	if c.cfg.SSL {
		return 443
	}
	return 80
}

func (c *Context) dialer() libtpt.Dialer {
	var resolver *net.Resolver

	if len(c.cfg.DNSServers) > 0 {
		servers := c.cfg.DNSServers
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctxDial context.Context, network, address string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctxDial, network, servers[0])
			},
		}
	}

	return libtpt.DefaultDialer(resolver)
}

func (c *Context) tlsConfig() *tls.Config {
	return c.cfg.TLS.New().TLS(c.cfg.Origin)
}

// Advance drives the in-flight machine one step and, on completion,
// dispatches to the kind's parser and latches the outcome. Called only
// by the scheduler or, in blocking mode, by the dispatch loop.
func (c *Context) Advance(ctx context.Context) bool {
	if c.machine == nil || c.lastOutcome.Terminal() {
		return false
	}

	changed := c.machine.Advance(ctx)

	if c.machine.Done() {
		c.latchResult(c.machine.Result())
	}

	return changed
}

func (c *Context) latchResult(res libfsm.Result) {
	if res.Err != nil {
		o := classifyError(res.Err)
		if o == libout.Cancelled && c.timedOut {
			o = libout.Timeout
		}
		c.setOutcome(o, res.StatusCode, res.Err)
		return
	}

	pr := libprs.Parse(c.kind, res.StatusCode, res.Body)

	if c.kind == libkin.Publish {
		c.lastPublish = pr.PublishResult
	}

	if pr.Description != "" {
		c.lastErrDetail = pr.Description
	}

	if pr.Outcome == libout.OK && pr.HasCursor {
		c.cursor = pr.Cursor
		c.feedV2 = pr.FeedV2
		c.feedV1 = pr.FeedV1
	}

	// a well-formed body on a non-2xx status is still an HTTP error,
	// unless the parser already produced a finer classification.
	if pr.Outcome == libout.OK && (res.StatusCode < 200 || res.StatusCode >= 300) {
		c.setOutcome(libout.HTTPError, res.StatusCode, nil)
		return
	}

	c.setOutcome(pr.Outcome, res.StatusCode, pr.Err)
}

func classifyError(err error) libout.Outcome {
	switch {
	case err == nil:
		return libout.OK
	case liberr.IsCode(err, libfsm.ErrorCancelled):
		return libout.Cancelled
	case liberr.IsCode(err, libfsm.ErrorConnectFailed):
		return libout.ConnectFailed
	case liberr.IsCode(err, libfsm.ErrorFormatError):
		return libout.IOError
	default:
		return libout.IOError
	}
}

// Cancel aborts the in-flight transaction: the machine transitions
// through its cancel states and the outcome latches to Cancelled. Safe
// to call at any time; a no-op when idle.
func (c *Context) Cancel() {
	if c.machine != nil {
		c.machine.Cancel()
	}
}

// Expire aborts like Cancel but latches Timeout instead of Cancelled.
// The watcher calls it when the transaction timer runs out.
func (c *Context) Expire() {
	if c.machine != nil && !c.lastOutcome.Terminal() {
		c.timedOut = true
		c.machine.Cancel()
	}
}

// Await blocks until the current transaction reaches a terminal
// outcome or ctx expires. It is the synchronous variant's only blocking
// point.
func (c *Context) Await(ctx context.Context) (libout.Outcome, int, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastOutcome, c.lastStatus, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastOutcome, c.lastStatus, c.lastErr
}

// Free cancels any in-flight transaction and waits up to timeout for it
// to release. A zero timeout waits for the connect-timeout window.
func (c *Context) Free(ctx context.Context, timeout time.Duration) error {
	c.mu.Lock()
	inFlight := !c.lastOutcome.Terminal() && c.machine != nil
	if inFlight {
		c.machine.Cancel()
	}
	c.mu.Unlock()

	if !inFlight {
		return nil
	}

	if timeout <= 0 {
		timeout = c.cfg.ConnectTimeout.Time()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	wait, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, _, err := c.Await(wait)

	return err
}

// TLSConfig exposes the derived *tls.Config for transport callers that
// need it outside of Begin (the auto-heartbeat pool clones it).
func (c *Context) TLSConfig() *tls.Config {
	if !c.cfg.SSL {
		return nil
	}

	return c.tlsConfig()
}
