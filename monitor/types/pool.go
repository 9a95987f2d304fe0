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

// Package types defines the health-check/monitor registration contract
// shared between the config component registry and whatever exposes
// liveness/readiness endpoints for the running client (a status page, a
// CLI "status" command).
package types

// Monitor is a single named health check, polled periodically by a Pool.
type Monitor interface {
	// Name identifies the monitor in status output.
	Name() string

	// Check runs the health check and returns an error if unhealthy.
	Check() error
}

// Pool collects monitors registered by components and reports their
// aggregate health.
type Pool interface {
	// Add registers a monitor under its Name(). Re-registering the same
	// name replaces the previous monitor.
	Add(m Monitor)

	// Remove unregisters the monitor with the given name.
	Remove(name string)

	// Check runs every registered monitor and returns the errors keyed by
	// monitor name; a healthy pool returns an empty map.
	Check() map[string]error
}

// FuncPool returns the shared monitor Pool a component should register its
// health checks into. It is provided by the config registry during Init.
type FuncPool func() Pool
