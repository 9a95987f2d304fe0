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

package pnclient

import (
	"context"
	"fmt"
	"sync"

	cfgtps "github.com/nabbar/pubnub-go/config/types"
	liblog "github.com/nabbar/pubnub-go/logger"
	montps "github.com/nabbar/pubnub-go/monitor/types"
	pncfg "github.com/nabbar/pubnub-go/pnconfig"
	libver "github.com/nabbar/pubnub-go/version"
	libvpr "github.com/nabbar/pubnub-go/viper"
	spfcbr "github.com/spf13/cobra"
)

type componentPNClient struct {
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

	run bool
	cfg pncfg.Config
}

func (o *componentPNClient) Type() string {
	return ComponentType
}

func (o *componentPNClient) Init(key string, ctx context.Context, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	o.m.Lock()
	defer o.m.Unlock()

	o.key = key
	o.ctx = ctx
	o.get = get
	o.vpr = vpr
	o.vrs = vrs
	o.log = log
}

func (o *componentPNClient) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.fsb = before
	o.fsa = after
}

func (o *componentPNClient) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.frb = before
	o.fra = after
}

func (o *componentPNClient) RegisterMonitorPool(p montps.FuncPool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.mon = p
}

func (o *componentPNClient) IsStarted() bool {
	o.m.Lock()
	defer o.m.Unlock()

	return o.run
}

func (o *componentPNClient) IsRunning() bool {
	return o.IsStarted()
}

func (o *componentPNClient) _getFct() (cfgtps.FuncCptEvent, cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	if o.run {
		return o.frb, o.fra
	}

	return o.fsb, o.fsa
}

func (o *componentPNClient) _runFct(fct cfgtps.FuncCptEvent) error {
	if fct != nil {
		return fct(o)
	}

	return nil
}

func (o *componentPNClient) _getKey() string {
	o.m.Lock()
	defer o.m.Unlock()

	return o.key
}

func (o *componentPNClient) _getViper() libvpr.Viper {
	o.m.Lock()
	defer o.m.Unlock()

	if o.vpr == nil {
		return nil
	}

	return o.vpr()
}

func (o *componentPNClient) _getConfig() (*pncfg.Config, error) {
	var (
		key string
		cfg = pncfg.Default()
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

func (o *componentPNClient) _run() error {
	fb, fa := o._getFct()

	if err := o._runFct(fb); err != nil {
		return err
	}

	cfg, err := o._getConfig()
	if err != nil {
		return err
	}

	o.m.Lock()
	o.cfg = *cfg
	o.run = true
	o.m.Unlock()

	return o._runFct(fa)
}

func (o *componentPNClient) Start() error {
	return o._run()
}

func (o *componentPNClient) Reload() error {
	return o._run()
}

func (o *componentPNClient) Stop() {
	o.m.Lock()
	defer o.m.Unlock()

	o.run = false
}

func (o *componentPNClient) Dependencies() []string {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.dep) > 0 {
		return o.dep
	}

	return make([]string, 0)
}

func (o *componentPNClient) SetDependencies(d []string) error {
	o.m.Lock()
	defer o.m.Unlock()

	o.dep = d

	return nil
}

func (o *componentPNClient) RegisterFlag(Command *spfcbr.Command) error {
	var (
		key string
		vpr libvpr.Viper
		err error
	)

	if vpr = o._getViper(); vpr == nil {
		return ErrorComponentNotInitialized.Error(nil)
	} else if key = o._getKey(); len(key) < 1 {
		return ErrorComponentNotInitialized.Error(nil)
	}

	_ = Command.PersistentFlags().String(key+".origin", "", "origin host of the pub/sub service")
	_ = Command.PersistentFlags().Uint16(key+".port", 0, "origin port, 0 to derive from ssl")
	_ = Command.PersistentFlags().Bool(key+".ssl", true, "use tls to reach the origin")

	if err = vpr.Viper().BindPFlag(key+".origin", Command.PersistentFlags().Lookup(key+".origin")); err != nil {
		return err
	} else if err = vpr.Viper().BindPFlag(key+".port", Command.PersistentFlags().Lookup(key+".port")); err != nil {
		return err
	} else if err = vpr.Viper().BindPFlag(key+".ssl", Command.PersistentFlags().Lookup(key+".ssl")); err != nil {
		return err
	}

	return nil
}

func (o *componentPNClient) Config() pncfg.Config {
	o.m.Lock()
	defer o.m.Unlock()

	return o.cfg
}
