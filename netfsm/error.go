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
	liberr "github.com/nabbar/pubnub-go/errors"
)

const (
	ErrorConnectFailed liberr.CodeError = liberr.MinPkgNetFSM + iota
	ErrorIOError
	ErrorFormatError
	ErrorCancelled
)

var (
	errConnectFailed = ErrorConnectFailed.Error(nil)
	errIOError       = ErrorIOError.Error(nil)
	errFormatError   = ErrorFormatError.Error(nil)
	errCancelled     = ErrorCancelled.Error(nil)
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorConnectFailed)
	liberr.RegisterIdFctMessage(ErrorConnectFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorConnectFailed:
		return "tcp connect failed"
	case ErrorIOError:
		return "framing or truncation error on the wire"
	case ErrorFormatError:
		return "malformed http status line or headers"
	case ErrorCancelled:
		return "transaction cancelled"
	}

	return liberr.NullMessage
}
