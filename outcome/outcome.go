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

// Package outcome is the closed alphabet of terminal transaction results.
// A Context's last outcome is always one of these values, never a bare
// Go error - the error detail, when there is one, travels in the parent
// chain of the errors.Error returned alongside it.
package outcome

import "strings"

// Outcome classifies how a transaction ended.
type Outcome uint8

const (
	// None is the zero value: no transaction has completed yet.
	None Outcome = iota
	OK
	Started
	InProgress
	Timeout
	AddrResolutionFailed
	ConnectFailed
	IOError
	HTTPError
	FormatError
	Cancelled
	PublishFailed
	InvalidChannel
	TxBuffTooSmall
	OutOfMemory
	InternalError
)

var names = map[Outcome]string{
	None:                  "none",
	OK:                    "ok",
	Started:               "started",
	InProgress:            "in_progress",
	Timeout:               "timeout",
	AddrResolutionFailed:  "addr_resolution_failed",
	ConnectFailed:         "connect_failed",
	IOError:               "io_error",
	HTTPError:             "http_error",
	FormatError:           "format_error",
	Cancelled:             "cancelled",
	PublishFailed:         "publish_failed",
	InvalidChannel:        "invalid_channel",
	TxBuffTooSmall:        "tx_buff_too_small",
	OutOfMemory:           "out_of_memory",
	InternalError:         "internal_error",
}

func (o Outcome) String() string {
	if n, ok := names[o]; ok {
		return n
	}

	return "unknown"
}

// Parse maps a wire/config string back to an Outcome, case-insensitively.
// An unrecognized string yields None.
func Parse(s string) Outcome {
	s = strings.ToLower(strings.TrimSpace(s))

	for o, n := range names {
		if n == s {
			return o
		}
	}

	return None
}

// Terminal reports whether the outcome ends the transaction - every value
// except None and Started leaves the context free to start a new one.
func (o Outcome) Terminal() bool {
	return o != None && o != Started
}

// Retryable reports whether the auto-heartbeat module should immediately
// re-thump after this outcome rather than waiting for the next period tick.
func (o Outcome) Retryable() bool {
	switch o {
	case Cancelled, OK:
		return false
	default:
		return o.Terminal()
	}
}
