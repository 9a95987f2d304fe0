/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package viper wraps spf13/viper with the logger and context conventions
// used across this module's config component registry: a logged config
// loader, reloadable from file or from a watch callback.
package viper

import (
	"context"
	"fmt"

	liblog "github.com/nabbar/pubnub-go/logger"
	"github.com/fsnotify/fsnotify"
	spfvpr "github.com/spf13/viper"
)

// FuncViper lets a consumer re-fetch the shared Viper wrapper on demand
// instead of holding one instance.
type FuncViper func() Viper

// Viper wraps a *spfvpr.Viper instance with logging and file-watch helpers.
type Viper interface {
	// Viper returns the underlying spf13/viper instance.
	Viper() *spfvpr.Viper

	// SetConfigFile sets the config file path explicitly, or validates that
	// a base name has been configured via the underlying viper instance.
	SetConfigFile(path string) error

	// ReadConfig reads the configuration from the configured file.
	ReadConfig() error

	// WatchConfig starts watching the config file for changes, invoking
	// fct (if non-nil) whenever it is rewritten.
	WatchConfig(fct func())
}

type vpr struct {
	ctx context.Context
	log liblog.FuncLog
	vip *spfvpr.Viper
}

// New creates a Viper wrapper bound to ctx, logging through log. If log is
// nil, a default logger bound to ctx is used.
func New(ctx context.Context, log liblog.FuncLog) Viper {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = func() liblog.Logger { return liblog.New(ctx) }
	}

	return &vpr{
		ctx: ctx,
		log: log,
		vip: spfvpr.New(),
	}
}

func (v *vpr) Viper() *spfvpr.Viper {
	return v.vip
}

func (v *vpr) SetConfigFile(path string) error {
	if path != "" {
		v.vip.SetConfigFile(path)
		return nil
	}

	if v.vip.ConfigFileUsed() != "" {
		return nil
	}

	return fmt.Errorf("viper: config base name is not set")
}

func (v *vpr) ReadConfig() error {
	return v.vip.ReadInConfig()
}

func (v *vpr) WatchConfig(fct func()) {
	if fct != nil {
		v.vip.OnConfigChange(func(_ fsnotify.Event) {
			fct()
		})
	}
	v.vip.WatchConfig()
}
