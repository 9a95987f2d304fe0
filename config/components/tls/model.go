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

package tls

import (
	"context"
	"fmt"
	"sync"

	libtls "github.com/nabbar/pubnub-go/certificates"
	cfgtps "github.com/nabbar/pubnub-go/config/types"
	liblog "github.com/nabbar/pubnub-go/logger"
	montps "github.com/nabbar/pubnub-go/monitor/types"
	libver "github.com/nabbar/pubnub-go/version"
	libvpr "github.com/nabbar/pubnub-go/viper"
	spfcbr "github.com/spf13/cobra"
)

type componentTls struct {
	m sync.Mutex

	key string
	ctx context.Context
	get cfgtps.FuncCptGet
	vpr libvpr.FuncViper
	vrs libver.Version
	log liblog.FuncLog
	mon montps.FuncPool

	fsa cfgtps.FuncCptEvent
	fsb cfgtps.FuncCptEvent
	fra cfgtps.FuncCptEvent
	frb cfgtps.FuncCptEvent

	dep []string
	f   libtls.FctRootCACert
	t   libtls.TLSConfig
}

func (o *componentTls) Type() string {
	return ComponentType
}

func (o *componentTls) Init(key string, ctx context.Context, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	o.m.Lock()
	defer o.m.Unlock()

	o.key = key
	o.ctx = ctx
	o.get = get
	o.vpr = vpr
	o.vrs = vrs
	o.log = log
}

func (o *componentTls) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.fsb = before
	o.fsa = after
}

func (o *componentTls) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.frb = before
	o.fra = after
}

func (o *componentTls) RegisterMonitorPool(p montps.FuncPool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.mon = p
}

func (o *componentTls) IsStarted() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.t != nil
}

func (o *componentTls) IsRunning() bool {
	return o.IsStarted()
}

func (o *componentTls) _getFct() (cfgtps.FuncCptEvent, cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	if o.t != nil {
		return o.frb, o.fra
	}

	return o.fsb, o.fsa
}

func (o *componentTls) _runFct(fct cfgtps.FuncCptEvent) error {
	if fct != nil {
		return fct(o)
	}

	return nil
}

func (o *componentTls) _getKey() string {
	o.m.Lock()
	defer o.m.Unlock()

	return o.key
}

func (o *componentTls) _getViper() libvpr.Viper {
	o.m.Lock()
	defer o.m.Unlock()

	if o.vpr == nil {
		return nil
	}

	return o.vpr()
}

func (o *componentTls) _getConfig() (*libtls.Config, error) {
	var (
		key string
		cfg libtls.Config
		vpr libvpr.Viper
	)

	if vpr = o._getViper(); vpr == nil {
		return nil, ErrorComponentNotInitialized.Error(nil)
	} else if key = o._getKey(); len(key) < 1 {
		return nil, ErrorComponentNotInitialized.Error(nil)
	} else if !vpr.Viper().IsSet(key) {
		return nil, ErrorParamInvalid.Error(fmt.Errorf("missing config key '%s'", key))
	} else if e := vpr.Viper().UnmarshalKey(key, &cfg); e != nil {
		return nil, ErrorParamInvalid.Error(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	return &cfg, nil
}

func (o *componentTls) _run() error {
	fb, fa := o._getFct()

	if err := o._runFct(fb); err != nil {
		return err
	}

	cfg, err := o._getConfig()
	if err != nil {
		return err
	}

	t := cfg.New()
	if t == nil {
		if o.IsStarted() {
			return ErrorComponentReload.Error(nil)
		}
		return ErrorComponentStart.Error(nil)
	}

	o.m.Lock()
	if o.f != nil {
		if ca := o.f(); ca != nil {
			t.AddRootCA(ca)
		}
	}
	o.t = t
	o.m.Unlock()

	return o._runFct(fa)
}

func (o *componentTls) Start() error {
	return o._run()
}

func (o *componentTls) Reload() error {
	return o._run()
}

func (o *componentTls) Stop() {
}

func (o *componentTls) Dependencies() []string {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.dep) > 0 {
		return o.dep
	}

	return make([]string, 0)
}

func (o *componentTls) SetDependencies(d []string) error {
	o.m.Lock()
	defer o.m.Unlock()

	o.dep = d

	return nil
}

func (o *componentTls) RegisterFlag(Command *spfcbr.Command) error {
	return nil
}

func (o *componentTls) GetTLS() libtls.TLSConfig {
	o.m.Lock()
	defer o.m.Unlock()

	return o.t
}

func (o *componentTls) SetTLS(tls libtls.TLSConfig) {
	o.m.Lock()
	defer o.m.Unlock()

	o.t = tls
}
