/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
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

// Package runner provides the panic-recovery convention shared by every
// background goroutine in this module: the watcher loop, the thumper pool,
// the aggregator, and the file logging hooks all defer a call to
// RecoveryCaller so a panic in one goroutine is logged instead of taking
// down the process.
package runner

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// RecoveryCaller logs a recovered panic value along with the caller name
// and, optionally, extra context strings. r is expected to be the result of
// a bare recover() call; if it is nil, RecoveryCaller is a no-op.
func RecoveryCaller(caller string, r interface{}, extra ...string) {
	if r == nil {
		return
	}

	msg := fmt.Sprintf("[%s] panic recovered in %q: %v", time.Now().Format(time.RFC3339), caller, r)

	for _, e := range extra {
		msg += " | " + e
	}

	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = fmt.Fprintln(os.Stderr, string(debug.Stack()))
}
