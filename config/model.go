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

package config

import (
	"context"
	"sync"
	"sync/atomic"

	cfgtps "github.com/nabbar/pubnub-go/config/types"
	libctx "github.com/nabbar/pubnub-go/registry"
)

// keys of the function registry (model.fct) holding the injected
// callbacks and shared instances.
const (
	fctVersion uint8 = iota
	fctViper
	fctStartBefore
	fctStartAfter
	fctReloadBefore
	fctReloadAfter
	fctStopBefore
	fctStopAfter
	fctLoggerDef
	fctMonitorPool
)

type model struct {
	ctx libctx.Config[string]
	cpt *cptMap
	fct libctx.Config[uint8]
	cnl *cnlMap
	seq atomic.Uint64
}

// cptMap is the typed component registry: a sync.Map keyed by the
// component key, valued by the component instance.
type cptMap struct {
	m sync.Map
}

func newCptMap() *cptMap {
	return &cptMap{}
}

func (m *cptMap) Load(key string) (cfgtps.Component, bool) {
	if i, l := m.m.Load(key); !l {
		return nil, false
	} else if v, k := i.(cfgtps.Component); !k {
		return nil, false
	} else {
		return v, true
	}
}

func (m *cptMap) Store(key string, cpt cfgtps.Component) {
	m.m.Store(key, cpt)
}

func (m *cptMap) Delete(key string) {
	m.m.Delete(key)
}

func (m *cptMap) Range(fct func(key string, cpt cfgtps.Component) bool) {
	m.m.Range(func(k, v any) bool {
		key, ok := k.(string)
		if !ok {
			return true
		}

		cpt, _ := v.(cfgtps.Component)

		return fct(key, cpt)
	})
}

// cnlMap holds the registered cancel functions, keyed by a sequence
// number so registration order survives.
type cnlMap struct {
	m sync.Map
}

func newCnlMap() *cnlMap {
	return &cnlMap{}
}

func (m *cnlMap) Store(k uint64, f context.CancelFunc) {
	m.m.Store(k, f)
}

func (m *cnlMap) Delete(k uint64) {
	m.m.Delete(k)
}

func (m *cnlMap) Range(fct func(k uint64, f context.CancelFunc) bool) {
	m.m.Range(func(k, v any) bool {
		key, ok := k.(uint64)
		if !ok {
			return true
		}

		f, _ := v.(context.CancelFunc)

		return fct(key, f)
	})
}
