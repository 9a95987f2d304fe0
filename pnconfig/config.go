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

// Package pnconfig is the mutable configuration half of a Context: the
// part spec §3 calls "mutable configuration" plus the immutable identity
// it is paired with. It is decoded from viper the way the teacher's other
// component configs are, and validated with go-playground/validator.
package pnconfig

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	libtls "github.com/nabbar/pubnub-go/certificates"
	libdur "github.com/nabbar/pubnub-go/duration"
	liberr "github.com/nabbar/pubnub-go/errors"
)

// Identity is the immutable half of a Context's configuration, set once at
// creation and never mutated afterward (spec invariant: "immutable identity").
type Identity struct {
	PublishKey   string `mapstructure:"publishKey" json:"publishKey" yaml:"publishKey" toml:"publishKey" validate:"required"`
	SubscribeKey string `mapstructure:"subscribeKey" json:"subscribeKey" yaml:"subscribeKey" toml:"subscribeKey" validate:"required"`
	SecretKey    string `mapstructure:"secretKey" json:"secretKey" yaml:"secretKey" toml:"secretKey"`
}

// Proxy describes an HTTP CONNECT proxy a Context dials through instead of
// the origin directly. Authentication retry on 407 is driven by netfsm's
// RETRY state using these credentials.
type Proxy struct {
	Host     string `mapstructure:"host" json:"host" yaml:"host" toml:"host"`
	Port     uint16 `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
	User     string `mapstructure:"user" json:"user" yaml:"user" toml:"user"`
	Password string `mapstructure:"password" json:"password" yaml:"password" toml:"password"`
}

func (p *Proxy) Enabled() bool {
	return p != nil && p.Host != ""
}

// Config is the full mutable configuration of a Context. Fields map onto
// spec §3's "mutable configuration" list one for one.
type Config struct {
	Identity `mapstructure:",squash"`

	UserID    string `mapstructure:"userId" json:"userId" yaml:"userId" toml:"userId" validate:"required"`
	AuthKey   string `mapstructure:"authKey" json:"authKey" yaml:"authKey" toml:"authKey"`
	AuthToken string `mapstructure:"authToken" json:"authToken" yaml:"authToken" toml:"authToken"`

	Origin string `mapstructure:"origin" json:"origin" yaml:"origin" toml:"origin" validate:"required"`
	Port   uint16 `mapstructure:"port" json:"port" yaml:"port" toml:"port"`

	Blocking  bool `mapstructure:"blocking" json:"blocking" yaml:"blocking" toml:"blocking"`
	KeepAlive bool `mapstructure:"keepAlive" json:"keepAlive" yaml:"keepAlive" toml:"keepAlive"`
	PreferV6  bool `mapstructure:"preferIPv6" json:"preferIPv6" yaml:"preferIPv6" toml:"preferIPv6"`

	SSL    bool          `mapstructure:"ssl" json:"ssl" yaml:"ssl" toml:"ssl"`
	TLS    libtls.Config `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
	Proxy  *Proxy        `mapstructure:"proxy" json:"proxy" yaml:"proxy" toml:"proxy"`
	TLSFallbackOnHandshakeError bool `mapstructure:"tlsFallbackOnHandshakeError" json:"tlsFallbackOnHandshakeError" yaml:"tlsFallbackOnHandshakeError" toml:"tlsFallbackOnHandshakeError"`

	TransactionTimeout libdur.Duration `mapstructure:"transactionTimeout" json:"transactionTimeout" yaml:"transactionTimeout" toml:"transactionTimeout"`
	ConnectTimeout     libdur.Duration `mapstructure:"connectTimeout" json:"connectTimeout" yaml:"connectTimeout" toml:"connectTimeout"`
	SubscribeTimeout   libdur.Duration `mapstructure:"subscribeTimeout" json:"subscribeTimeout" yaml:"subscribeTimeout" toml:"subscribeTimeout"`

	HeartbeatPeriod  libdur.Duration `mapstructure:"heartbeatPeriod" json:"heartbeatPeriod" yaml:"heartbeatPeriod" toml:"heartbeatPeriod"`
	PresenceTimeout  uint32          `mapstructure:"presenceTimeout" json:"presenceTimeout" yaml:"presenceTimeout" toml:"presenceTimeout"`

	FilterExpression string   `mapstructure:"filterExpression" json:"filterExpression" yaml:"filterExpression" toml:"filterExpression"`
	DNSServers       []string `mapstructure:"dnsServers" json:"dnsServers" yaml:"dnsServers" toml:"dnsServers"`

	RequestBufferSize uint32 `mapstructure:"requestBufferSize" json:"requestBufferSize" yaml:"requestBufferSize" toml:"requestBufferSize"`
	ReplyBufferSize   uint32 `mapstructure:"replyBufferSize" json:"replyBufferSize" yaml:"replyBufferSize" toml:"replyBufferSize"`
}

// Default returns a Config with the library's stock timeouts and buffer
// sizes, matching the original core's compile-time defaults (spec §3, §4.1).
func Default() Config {
	return Config{
		Port:               443,
		SSL:                true,
		KeepAlive:          true,
		TransactionTimeout: libdur.Seconds(10),
		ConnectTimeout:     libdur.Seconds(5),
		SubscribeTimeout:   libdur.Seconds(310),
		HeartbeatPeriod:    libdur.Seconds(300),
		PresenceTimeout:    300,
		RequestBufferSize:  8 * 1024,
		ReplyBufferSize:    64 * 1024,
	}
}

func (c *Config) Validate() liberr.Error {
	err := ErrorConfigValidation.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		} else if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				//nolint goerr113
				err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.StructNamespace(), e.ActualTag()))
			}
		} else {
			err.Add(er)
		}
	}

	if c.Port == 0 {
		c.Port = 443
	}

	if err.HasParent() {
		return err
	}

	return nil
}

// CloneForThumper copies the mutable configuration an auto-heartbeat
// thumper shares with its paired user context (spec §4.5): auth, origin,
// keep-alive, IPv6 preference, proxy. Identity is copied too so a thumper
// can detect a key change (spec invariant 7) by simple comparison.
func (c Config) CloneForThumper() Config {
	t := c
	t.TLS = c.TLS
	if c.Proxy != nil {
		p := *c.Proxy
		t.Proxy = &p
	}
	return t
}
