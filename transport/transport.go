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

// Package transport gives netfsm a non-blocking socket contract over a
// plain net.Conn. Go's net.Conn has no OS-level non-blocking mode, so
// "non-blocking" here is synthesized with a short read/write deadline
// on every poll: a net.Error with Timeout() true means "would-block,
// call again later", anything else is a real failure. This keeps the
// "never blocks the caller" contract the FSM depends on.
package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"
)

// Socket is the non-blocking transport contract netfsm drives. Every
// method returns immediately; "pending" progress is reported through the
// Status return value rather than by blocking.
type Socket interface {
	// Connect starts (or continues) establishing the underlying
	// connection. It returns Ready once Conn() is usable.
	Connect(ctx context.Context) Status

	// StartTLS wraps the already-connected socket in a TLS client
	// handshake using cfg. Subsequent I/O goes through the TLS layer.
	StartTLS(cfg *tls.Config, serverName string) Status

	// Send writes p without blocking; a partial write leaves the
	// remainder buffered internally and is resumed by the next Send
	// call with the same slice, or by SendPending.
	Send(p []byte) (Status, int)

	// SendPending resumes a Send left in StatusPending.
	SendPending() Status

	// StartReadLine arms a line read; LineRead polls it to completion.
	StartReadLine()
	LineRead() (line []byte, status Status)

	// StartRead arms a fixed-count read; ReadOver polls it to
	// completion, returning the bytes read so far across every call.
	StartRead(n int)
	ReadOver() (chunk []byte, status Status)

	// Close initiates a close; Closed reports completion.
	Close() Status
	Closed() bool

	// LocalAddr/RemoteAddr mirror net.Conn for logging.
	RemoteAddr() string
}

// pollWindow is the tiny deadline applied to every read/write pass: a
// zero deadline would make Go's net stack fail even when data is
// already buffered, so "non-blocking" here means "blocks at most one
// poll window".
const pollWindow = 5 * time.Millisecond

// Status is the outcome of one non-blocking transport operation.
type Status uint8

const (
	StatusReady Status = iota
	StatusPending
	StatusError
)

// Dialer builds the net.Conn a Socket wraps; production code uses
// DefaultDialer, tests substitute a fake.
type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

// DefaultDialer dials plain TCP, optionally through a custom resolver
// pointed at pnconfig.Config.DNSServers (spec SUPPLEMENTED FEATURES).
func DefaultDialer(resolver *net.Resolver) Dialer {
	d := &net.Dialer{Timeout: 5 * time.Second, Resolver: resolver}
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		return d.DialContext(ctx, network, address)
	}
}

type sock struct {
	dial    Dialer
	network string
	address string
	conn    net.Conn
	rd      *bufio.Reader

	sendBuf []byte
	sendOff int

	readLine bool
	readN    int
	readBuf  []byte

	closed bool
}

// New builds a Socket that will dial network/address on first Connect.
func New(dial Dialer, network, address string) Socket {
	if dial == nil {
		dial = DefaultDialer(nil)
	}

	return &sock{dial: dial, network: network, address: address}
}

func (s *sock) Connect(ctx context.Context) Status {
	if s.conn != nil {
		return StatusReady
	}

	c, err := s.dial(ctx, s.network, s.address)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return StatusPending
		}

		return StatusError
	}

	s.conn = c
	s.rd = bufio.NewReaderSize(c, 4096)

	return StatusReady
}

func (s *sock) StartTLS(cfg *tls.Config, serverName string) Status {
	if s.conn == nil {
		return StatusError
	}

	// a reused keep-alive socket is already wrapped
	if _, ok := s.conn.(*tls.Conn); ok {
		return StatusReady
	}

	c := cfg.Clone()
	if c == nil {
		c = &tls.Config{}
	}
	if c.ServerName == "" {
		c.ServerName = serverName
	}

	tc := tls.Client(s.conn, c)

	_ = tc.SetDeadline(time.Now().Add(5 * time.Second))
	if err := tc.Handshake(); err != nil {
		return StatusError
	}
	_ = tc.SetDeadline(time.Time{})

	s.conn = tc
	s.rd = bufio.NewReaderSize(tc, 4096)

	return StatusReady
}

func (s *sock) Send(p []byte) (Status, int) {
	if s.sendBuf == nil {
		s.sendBuf = p
		s.sendOff = 0
	}

	return s.SendPending(), len(p)
}

func (s *sock) SendPending() Status {
	if s.sendBuf == nil || s.sendOff >= len(s.sendBuf) {
		s.sendBuf = nil
		return StatusReady
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(pollWindow))

	n, err := s.conn.Write(s.sendBuf[s.sendOff:])
	s.sendOff += n

	if s.sendOff >= len(s.sendBuf) {
		s.sendBuf = nil
		return StatusReady
	}

	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return StatusPending
		}

		return StatusError
	}

	return StatusPending
}

func (s *sock) StartReadLine() {
	s.readLine = true
	s.readBuf = s.readBuf[:0]
}

func (s *sock) LineRead() ([]byte, Status) {
	_ = s.conn.SetReadDeadline(time.Now().Add(pollWindow))

	for {
		b, err := s.rd.ReadByte()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return nil, StatusPending
			}

			return nil, StatusError
		}

		s.readBuf = append(s.readBuf, b)

		if b == '\n' {
			line := s.readBuf
			s.readBuf = nil
			s.readLine = false
			return line, StatusReady
		}
	}
}

func (s *sock) StartRead(n int) {
	s.readN = n
	s.readBuf = make([]byte, 0, n)
}

func (s *sock) ReadOver() ([]byte, Status) {
	_ = s.conn.SetReadDeadline(time.Now().Add(pollWindow))

	for len(s.readBuf) < s.readN {
		buf := make([]byte, s.readN-len(s.readBuf))

		n, err := s.rd.Read(buf)
		if n > 0 {
			s.readBuf = append(s.readBuf, buf[:n]...)
		}

		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return s.readBuf, StatusPending
			}

			return s.readBuf, StatusError
		}

		if n == 0 {
			return s.readBuf, StatusPending
		}
	}

	return s.readBuf, StatusReady
}

func (s *sock) Close() Status {
	if s.conn == nil {
		s.closed = true
		return StatusReady
	}

	err := s.conn.Close()
	s.closed = true

	if err != nil {
		return StatusError
	}

	return StatusReady
}

func (s *sock) Closed() bool {
	return s.closed
}

func (s *sock) RemoteAddr() string {
	if s.conn == nil {
		return s.address
	}

	return s.conn.RemoteAddr().String()
}
