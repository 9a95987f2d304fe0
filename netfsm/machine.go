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

package netfsm

import (
	"bytes"
	"context"
	"crypto/tls"
	"strconv"
	"strings"

	libtpt "github.com/nabbar/pubnub-go/transport"
)

// Request is everything the machine needs to emit one HTTP request.
type Request struct {
	Method     string
	Path       string
	Host       string
	Headers    map[string]string
	Body       []byte
	SSL        bool
	ServerName string
	TLSConfig  *tls.Config

	// ProxyAuth, when non-empty, is the Proxy-Authorization value
	// replayed after a 407 on the retry pass.
	ProxyAuth string

	// TLSFallback permits one plaintext retry after a failed TLS
	// handshake.
	TLSFallback bool
}

// Result is latched once the machine leaves the request/response cycle.
type Result struct {
	StatusCode int
	Body       []byte
	Chunked    bool
	Err        error
}

// Machine drives one request/response cycle over a transport.Socket.
// A Machine is owned by exactly one Context and is not safe for
// concurrent use - callers serialize access with the Context's own lock.
type Machine struct {
	sock libtpt.Socket
	req  Request

	state State

	reqBuf    *bytes.Buffer
	headerBuf []byte

	reply    *bytes.Buffer
	replyCap int

	chunked       bool
	contentLength int64
	haveLength    bool
	chunkLeft     int64

	statusCode int
	keepAlive  bool

	proxyAuthRetried bool
	tlsFallbackTried bool

	done bool
	err  error
}

// New builds a Machine bound to sock, ready to run req once Advance is
// called from the Idle state.
func New(sock libtpt.Socket, req Request, replyCapacity int) *Machine {
	return &Machine{
		sock:     sock,
		req:      req,
		state:    Idle,
		replyCap: replyCapacity,
		reply:    bytes.NewBuffer(make([]byte, 0, replyCapacity)),
	}
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Done() bool   { return m.done }

// Start kicks the machine from Idle/KeepAliveIdle into the connect phase.
// DNS resolution (WaitDNSSend/WaitDNSRecv in the state list) happens
// inside transport.Socket.Connect via net.Resolver rather than as
// separately observable states - Go's resolver has no non-blocking poll
// surface to multiplex by hand, so WaitConnect covers both.
func (m *Machine) Start() {
	m.done = false
	m.err = nil
	m.state = WaitConnect
}

// Cancel transitions the machine toward WaitCancel/WaitCancelClose per
// spec §4.4's cancellation semantics. It is always safe to call.
func (m *Machine) Cancel() {
	if m.done || m.state == Null || m.state == Idle {
		return
	}

	m.state = WaitCancel
}

// Advance is re-entrant and idempotent: it runs state transitions until
// one needs I/O that isn't ready yet, then returns. The scheduler may
// call it any number of times. It returns true if the state changed.
func (m *Machine) Advance(ctx context.Context) bool {
	start := m.state
	budget := 64 // fall-through guard against infinite intra-call loops

	for budget > 0 {
		budget--

		if !m.step(ctx) {
			break
		}
	}

	return m.state != start
}

func (m *Machine) step(ctx context.Context) bool {
	switch m.state {
	case Idle, Null:
		return false

	case WaitCancel:
		if st := m.sock.Close(); st != libtpt.StatusPending {
			m.state = WaitCancelClose
			return true
		}
		return false

	case WaitCancelClose:
		if m.sock.Closed() {
			m.done = true
			m.err = errCancelled
			m.state = Idle
		}
		return false

	case WaitConnect:
		switch m.sock.Connect(ctx) {
		case libtpt.StatusReady:
			if m.req.SSL {
				m.state = WaitTLSConnect
			} else {
				m.state = Connected
			}
			return true
		case libtpt.StatusError:
			m.fail(errConnectFailed)
			return true
		default:
			return false
		}

	case WaitTLSConnect:
		switch m.sock.StartTLS(m.req.TLSConfig, m.req.ServerName) {
		case libtpt.StatusReady:
			m.state = Connected
			return true
		case libtpt.StatusError:
			if m.req.TLSFallback && !m.tlsFallbackTried {
				m.tlsFallbackTried = true
				m.req.SSL = false
				m.state = Retry
				return true
			}
			m.fail(errConnectFailed)
			return true
		default:
			return false
		}

	case Connected:
		m.buildRequest()
		m.state = TxOrigin
		return true

	case TxOrigin:
		st, _ := m.sock.Send(m.reqBuf.Bytes())
		switch st {
		case libtpt.StatusReady:
			m.state = RxHTTPVer
			m.sock.StartReadLine()
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case RxHTTPVer:
		line, st := m.sock.LineRead()
		switch st {
		case libtpt.StatusReady:
			if !isStatusLine(line) {
				m.fail(errFormatError)
				return true
			}
			m.statusCode = parseStatusCode(line)
			m.headerBuf = m.headerBuf[:0]
			m.state = RxHeaderLine
			m.sock.StartReadLine()
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case RxHeaderLine:
		line, st := m.sock.LineRead()
		switch st {
		case libtpt.StatusReady:
			trimmed := strings.TrimRight(string(line), "\r\n")
			if trimmed == "" {
				m.state = m.bodyStartState()
				return true
			}
			m.consumeHeaderLine(trimmed)
			m.sock.StartReadLine()
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case RxBody:
		if m.contentLength == 0 {
			m.finishBody()
			return true
		}
		m.sock.StartRead(int(m.contentLength))
		m.state = RxBodyWait
		return true

	case RxBodyWait:
		chunk, st := m.sock.ReadOver()
		switch st {
		case libtpt.StatusReady:
			if !m.appendReply(chunk) {
				return true
			}
			m.finishBody()
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case RxChunkLen:
		m.sock.StartReadLine()
		m.state = RxChunkLenLine
		return true

	case RxChunkLenLine:
		line, st := m.sock.LineRead()
		switch st {
		case libtpt.StatusReady:
			n, err := strconv.ParseInt(strings.TrimSpace(string(line)), 16, 64)
			if err != nil {
				m.fail(errFormatError)
				return true
			}
			if n == 0 {
				m.finishBody()
				return true
			}
			m.chunkLeft = n
			m.sock.StartRead(int(n) + 2) // + trailing CRLF
			m.state = RxBodyChunk
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case RxBodyChunk:
		chunk, st := m.sock.ReadOver()
		switch st {
		case libtpt.StatusReady:
			body := chunk
			if len(body) >= 2 {
				body = body[:len(body)-2]
			}
			if !m.appendReply(body) {
				return true
			}
			m.state = RxChunkLen
			return true
		case libtpt.StatusError:
			m.fail(errIOError)
			return true
		default:
			return false
		}

	case Retry:
		m.reply.Reset()
		m.chunked = false
		m.haveLength = false
		m.contentLength = 0
		m.statusCode = 0
		m.state = WaitConnect
		return true

	case WaitClose:
		if st := m.sock.Close(); st != libtpt.StatusPending {
			m.done = true
			m.state = Idle
		}
		return false

	case KeepAliveIdle:
		m.done = true
		return false

	default:
		return false
	}
}

func (m *Machine) buildRequest() {
	b := &bytes.Buffer{}

	b.WriteString(m.req.Method)
	b.WriteByte(' ')
	b.WriteString(m.req.Path)
	b.WriteString(" HTTP/1.1\r\n")
	b.WriteString("Host: " + m.req.Host + "\r\n")
	b.WriteString("User-Agent: pubnub-go/1.0\r\n")
	b.WriteString("Connection: Keep-Alive\r\n")

	for k, v := range m.req.Headers {
		b.WriteString(k + ": " + v + "\r\n")
	}

	if len(m.req.Body) > 0 {
		b.WriteString("Content-Length: " + strconv.Itoa(len(m.req.Body)) + "\r\n")
	}

	b.WriteString("\r\n")
	b.Write(m.req.Body)

	m.reqBuf = b
}

func (m *Machine) bodyStartState() State {
	if m.chunked {
		return RxChunkLen
	}

	return RxBody
}

func (m *Machine) consumeHeaderLine(line string) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}

	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	// RFC 7230 mandates case-insensitive header-name matching; the
	// original sync core used strncmp here, a documented bug fixed here.
	switch strings.ToLower(name) {
	case "content-length":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			m.contentLength = n
			m.haveLength = true
		}
	case "transfer-encoding":
		if strings.EqualFold(value, "chunked") {
			m.chunked = true
		}
	case "connection":
		m.keepAlive = strings.EqualFold(value, "keep-alive")
	case "proxy-authenticate":
		// retained for the 407 retry path driven by dispatch/scheduler
	}
}

func (m *Machine) appendReply(p []byte) bool {
	if m.reply.Len()+len(p) > m.replyCap {
		m.fail(errIOError)
		return false
	}

	m.reply.Write(p)
	return true
}

func (m *Machine) finishBody() {
	if m.statusCode == 407 && m.req.ProxyAuth != "" && !m.proxyAuthRetried {
		m.proxyAuthRetried = true
		if m.req.Headers == nil {
			m.req.Headers = make(map[string]string, 1)
		}
		m.req.Headers["Proxy-Authorization"] = m.req.ProxyAuth
		m.state = Retry
		return
	}

	m.done = true

	if m.keepAlive {
		m.state = KeepAliveIdle
	} else {
		m.state = WaitClose
	}
}

func (m *Machine) fail(err error) {
	m.err = err
	m.done = true
	m.state = WaitClose
}

// Result reports the terminal outcome of a completed cycle. Calling it
// before Done() returns true yields a zero-value, in-progress Result.
func (m *Machine) Result() Result {
	return Result{
		StatusCode: m.statusCode,
		Body:       m.reply.Bytes(),
		Chunked:    m.chunked,
		Err:        m.err,
	}
}

func isStatusLine(line []byte) bool {
	s := strings.TrimRight(string(line), "\r\n")
	if !strings.HasPrefix(s, "HTTP/1.") || len(s) < len("HTTP/1.x ")+3 {
		return false
	}

	parts := strings.SplitN(s, " ", 3)
	if len(parts) < 2 || len(parts[1]) != 3 {
		return false
	}

	if _, err := strconv.Atoi(parts[1]); err != nil {
		return false
	}

	return true
}

func parseStatusCode(line []byte) int {
	s := strings.TrimRight(string(line), "\r\n")
	parts := strings.SplitN(s, " ", 3)
	if len(parts) < 2 {
		return 0
	}

	n, _ := strconv.Atoi(parts[1])
	return n
}
