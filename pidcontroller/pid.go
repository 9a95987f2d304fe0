/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package pidcontroller implements a small PID (proportional-integral-
// derivative) controller used by the duration package to space out a
// range of durations between two bounds - for instance, the backoff
// schedule tried between a subscribe loop's reconnect attempts.
package pidcontroller

import (
	"context"
	"math"
)

// PID is a proportional-integral-derivative controller over a float64
// process variable.
type PID interface {
	// Next feeds the controller the current error (target - measured) and
	// returns the next correction.
	Next(errValue float64) float64

	// RangeCtx generates a monotonic sequence of values walking from start
	// towards end, spaced by the controller's correction at each step. The
	// returned slice always starts at start; it stops early if ctx is
	// cancelled.
	RangeCtx(ctx context.Context, start, end float64) []float64

	// Range is RangeCtx with context.Background().
	Range(start, end float64) []float64
}

type pid struct {
	kp, ki, kd float64
	integral   float64
	prevErr    float64
}

// New creates a PID controller with the given proportional, integral and
// derivative rates.
func New(rateP, rateI, rateD float64) PID {
	return &pid{kp: rateP, ki: rateI, kd: rateD}
}

func (p *pid) Next(errValue float64) float64 {
	p.integral += errValue
	derivative := errValue - p.prevErr
	p.prevErr = errValue

	return p.kp*errValue + p.ki*p.integral + p.kd*derivative
}

func (p *pid) RangeCtx(ctx context.Context, start, end float64) []float64 {
	res := []float64{start}

	if start == end {
		return res
	}

	cur := start
	target := end
	step := math.Abs(target - cur)
	if step == 0 {
		return res
	}

	ascending := target > cur

	for i := 0; i < 64; i++ {
		select {
		case <-ctx.Done():
			return res
		default:
		}

		errValue := target - cur
		correction := p.Next(errValue)

		if correction == 0 {
			break
		}

		cur += correction

		if ascending && cur >= target {
			break
		}
		if !ascending && cur <= target {
			break
		}

		res = append(res, cur)
	}

	return res
}

func (p *pid) Range(start, end float64) []float64 {
	return p.RangeCtx(context.Background(), start, end)
}
