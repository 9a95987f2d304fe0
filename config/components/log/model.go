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

package log

import (
	"context"
	"sync"
	"sync/atomic"

	libatm "github.com/nabbar/pubnub-go/atomic"
	cfgtps "github.com/nabbar/pubnub-go/config/types"
	liblog "github.com/nabbar/pubnub-go/logger"
	logcfg "github.com/nabbar/pubnub-go/logger/config"
	logfld "github.com/nabbar/pubnub-go/logger/fields"
	loglvl "github.com/nabbar/pubnub-go/logger/level"
	montps "github.com/nabbar/pubnub-go/monitor/types"
	libctx "github.com/nabbar/pubnub-go/registry"
	libver "github.com/nabbar/pubnub-go/version"
	libvpr "github.com/nabbar/pubnub-go/viper"
	spfvpr "github.com/spf13/viper"
)

// ComponentType is the registry type tag of this component.
const ComponentType = "log"

type mod struct {
	m sync.Mutex

	x libctx.Config[uint8]
	l libatm.Value[liblog.Logger]
	r *atomic.Bool
	v *atomic.Uint32

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
}

func (o *mod) Type() string {
	return ComponentType
}

func (o *mod) Init(key string, ctx context.Context, get cfgtps.FuncCptGet, vpr libvpr.FuncViper, vrs libver.Version, log liblog.FuncLog) {
	o.m.Lock()
	defer o.m.Unlock()

	o.key = key
	o.ctx = ctx
	o.get = get
	o.vpr = vpr
	o.vrs = vrs
	o.log = log
}

func (o *mod) RegisterFuncStart(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.fsb = before
	o.fsa = after
}

func (o *mod) RegisterFuncReload(before, after cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	o.frb = before
	o.fra = after
}

func (o *mod) RegisterMonitorPool(p montps.FuncPool) {
	o.m.Lock()
	defer o.m.Unlock()

	o.mon = p
}

func (o *mod) IsStarted() bool {
	return o.r.Load()
}

func (o *mod) IsRunning() bool {
	return o.IsStarted()
}

func (o *mod) _getFct() (cfgtps.FuncCptEvent, cfgtps.FuncCptEvent) {
	o.m.Lock()
	defer o.m.Unlock()

	if o.r.Load() {
		return o.frb, o.fra
	}

	return o.fsb, o.fsa
}

func (o *mod) _runFct(fct cfgtps.FuncCptEvent) error {
	if fct != nil {
		return fct(o)
	}

	return nil
}

func (o *mod) _getKey() string {
	o.m.Lock()
	defer o.m.Unlock()

	return o.key
}

func (o *mod) _getSPFViper() *spfvpr.Viper {
	if v := o._getViper(); v == nil {
		return nil
	} else {
		return v.Viper()
	}
}

func (o *mod) _getViper() libvpr.Viper {
	o.m.Lock()
	defer o.m.Unlock()

	if o.vpr == nil {
		return nil
	}

	return o.vpr()
}

func (o *mod) _getContext() context.Context {
	o.m.Lock()
	defer o.m.Unlock()

	if o.ctx != nil {
		return o.ctx
	}

	return context.Background()
}

func (o *mod) _run() error {
	fb, fa := o._getFct()

	if err := o._runFct(fb); err != nil {
		return err
	}

	opt, err := o._getConfig()
	if err != nil {
		return err
	}

	var l liblog.Logger

	if l = o.l.Load(); l == nil {
		l = liblog.New(o._getContext())
		l.SetLevel(o.GetLevel())
	}

	if e := l.SetOptions(opt); e != nil {
		if o.r.Load() {
			return ErrorComponentReload.Error(e)
		}
		return ErrorComponentStart.Error(e)
	}

	o.l.Store(l)
	o.r.Store(true)

	return o._runFct(fa)
}

func (o *mod) Start() error {
	return o._run()
}

func (o *mod) Reload() error {
	return o._run()
}

func (o *mod) Stop() {
	o.r.Store(false)
}

func (o *mod) Dependencies() []string {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.dep) > 0 {
		return o.dep
	}

	return make([]string, 0)
}

func (o *mod) SetDependencies(d []string) error {
	o.m.Lock()
	defer o.m.Unlock()

	o.dep = d

	return nil
}

func (o *mod) Log() liblog.Logger {
	if l := o.l.Load(); l != nil {
		return l
	}

	l := liblog.New(o._getContext())
	l.SetLevel(o.GetLevel())

	return l
}

func (o *mod) LogClone() liblog.Logger {
	if l := o.l.Load(); l != nil {
		if c, e := l.Clone(); e == nil {
			return c
		}
	}

	return o.Log()
}

func (o *mod) SetLevel(lvl loglvl.Level) {
	o.v.Store(lvl.Uint32())

	if l := o.l.Load(); l != nil {
		l.SetLevel(lvl)
	}
}

func (o *mod) GetLevel() loglvl.Level {
	return loglvl.ParseFromUint32(o.v.Load())
}

func (o *mod) SetField(fields logfld.Fields) {
	if l := o.l.Load(); l != nil {
		l.SetFields(fields)
	}
}

func (o *mod) GetField() logfld.Fields {
	if l := o.l.Load(); l != nil {
		return l.GetFields()
	}

	return nil
}

func (o *mod) SetOptions(opt *logcfg.Options) error {
	if l := o.l.Load(); l != nil {
		return l.SetOptions(opt)
	}

	return ErrorComponentNotInitialized.Error(nil)
}

func (o *mod) GetOptions() *logcfg.Options {
	if l := o.l.Load(); l != nil {
		return l.GetOptions()
	}

	return nil
}
