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

// Package netfsm drives one HTTP request/response to completion over one
// transport.Socket without ever blocking the caller. It is a closed state
// enum plus one re-entrant, idempotent Advance method: the scheduler may
// call Advance any number of times and it either makes progress (possibly
// through several states in one call) or returns immediately.
package netfsm

// State is one point in the HTTP request/response lifecycle.
type State uint8

const (
	Null State = iota
	Idle

	WaitDNSSend
	WaitDNSRecv
	WaitConnect
	Connected
	WaitTLSConnect

	TxGet
	TxPath
	TxScheme
	TxHost
	TxPortNum
	TxVer
	TxExtraHeaders
	TxOrigin
	TxFinHead
	TxBody

	RxHTTPVer
	RxHeaders
	RxHeaderLine

	RxBody
	RxBodyWait
	RxChunkLen
	RxChunkLenLine
	RxBodyChunk
	RxBodyChunkWait

	WaitClose
	KeepAliveIdle

	WaitCancel
	WaitCancelClose

	Retry
	WaitRetry
)

var names = map[State]string{
	Null:             "null",
	Idle:             "idle",
	WaitDNSSend:      "wait_dns_send",
	WaitDNSRecv:      "wait_dns_recv",
	WaitConnect:      "wait_connect",
	Connected:        "connected",
	WaitTLSConnect:   "wait_tls_connect",
	TxGet:            "tx_get",
	TxPath:           "tx_path",
	TxScheme:         "tx_scheme",
	TxHost:           "tx_host",
	TxPortNum:        "tx_port_num",
	TxVer:            "tx_ver",
	TxExtraHeaders:   "tx_extra_headers",
	TxOrigin:         "tx_origin",
	TxFinHead:        "tx_fin_head",
	TxBody:           "tx_body",
	RxHTTPVer:        "rx_http_ver",
	RxHeaders:        "rx_headers",
	RxHeaderLine:     "rx_header_line",
	RxBody:           "rx_body",
	RxBodyWait:       "rx_body_wait",
	RxChunkLen:       "rx_chunk_len",
	RxChunkLenLine:   "rx_chunk_len_line",
	RxBodyChunk:      "rx_body_chunk",
	RxBodyChunkWait:  "rx_body_chunk_wait",
	WaitClose:        "wait_close",
	KeepAliveIdle:    "keep_alive_idle",
	WaitCancel:       "wait_cancel",
	WaitCancelClose:  "wait_cancel_close",
	Retry:            "retry",
	WaitRetry:        "wait_retry",
}

func (s State) String() string {
	if n, ok := names[s]; ok {
		return n
	}

	return "unknown"
}

// CanStartTransaction is spec invariant 1: a context accepts a new
// transaction only from Idle or KeepAliveIdle.
func (s State) CanStartTransaction() bool {
	return s == Idle || s == KeepAliveIdle
}

// HasSocket is spec invariant 2: the socket exists for exactly this set
// of states (connected through waiting-close).
func (s State) HasSocket() bool {
	switch s {
	case Null, Idle, WaitDNSSend, WaitDNSRecv, KeepAliveIdle:
		return false
	default:
		return true
	}
}

// WantsWrite reports whether the poll set should watch this socket for
// writability rather than readability.
func (s State) WantsWrite() bool {
	switch s {
	case WaitConnect, WaitTLSConnect, TxGet, TxPath, TxScheme, TxHost,
		TxPortNum, TxVer, TxExtraHeaders, TxOrigin, TxFinHead, TxBody:
		return true
	default:
		return false
	}
}

// OnTimerList is spec invariant 3: a context sits on the scheduler's
// timer list exactly while it has an in-flight transaction or is counting
// down a keep-alive idle timeout.
func (s State) OnTimerList() bool {
	return s != Null && s != Idle
}
