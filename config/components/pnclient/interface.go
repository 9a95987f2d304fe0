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

// Package pnclient is the configuration component binding a pub/sub
// client configuration to the component registry: the publish/subscribe
// keys, origin, timeouts, TLS and proxy settings are decoded from viper
// (YAML/JSON/TOML/env) and revalidated on every reload.
package pnclient

import (
	"context"

	libcfg "github.com/nabbar/pubnub-go/config"
	cfgtps "github.com/nabbar/pubnub-go/config/types"
	pncfg "github.com/nabbar/pubnub-go/pnconfig"
)

// ComponentType is the registry type tag of this component.
const ComponentType = "pnclient"

// CptPNClient is the public interface of the pub/sub client component.
type CptPNClient interface {
	cfgtps.Component

	// Config returns the last successfully loaded client configuration.
	Config() pncfg.Config
}

// New creates a new pub/sub client configuration component.
func New(ctx context.Context) CptPNClient {
	return &componentPNClient{
		ctx: ctx,
	}
}

// Register registers the given component in the configuration registry
// under the specified key.
func Register(cfg libcfg.Config, key string, cpt CptPNClient) {
	cfg.ComponentSet(key, cpt)
}

// RegisterNew instantiates and registers a component under key.
func RegisterNew(ctx context.Context, cfg libcfg.Config, key string) {
	cfg.ComponentSet(key, New(ctx))
}

// Load retrieves a pub/sub client component from a component getter.
func Load(getCpt cfgtps.FuncCptGet, key string) CptPNClient {
	if getCpt == nil {
		return nil
	} else if c := getCpt(key); c == nil {
		return nil
	} else if h, ok := c.(CptPNClient); !ok {
		return nil
	} else {
		return h
	}
}
