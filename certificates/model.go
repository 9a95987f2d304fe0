/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package certificates

import (
	"crypto/tls"
	"io"

	tlsaut "github.com/nabbar/pubnub-go/certificates/auth"
	tlscas "github.com/nabbar/pubnub-go/certificates/ca"
	tlscrt "github.com/nabbar/pubnub-go/certificates/certs"
	tlscpr "github.com/nabbar/pubnub-go/certificates/cipher"
	tlscrv "github.com/nabbar/pubnub-go/certificates/curves"
	tlsvrs "github.com/nabbar/pubnub-go/certificates/tlsversion"
)

type config struct {
	rand                  io.Reader
	cert                  []tlscrt.Cert
	cipherList            []tlscpr.Cipher
	curveList             []tlscrv.Curves
	caRoot                []tlscas.Cert
	clientAuth            tlsaut.ClientAuth
	clientCA              []tlscas.Cert
	tlsMinVersion         tlsvrs.Version
	tlsMaxVersion         tlsvrs.Version
	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func (o *config) RegisterRand(rand io.Reader) {
	o.rand = rand
}

func (o *config) SetVersionMin(v tlsvrs.Version) {
	o.tlsMinVersion = v
}

func (o *config) GetVersionMin() tlsvrs.Version {
	return o.tlsMinVersion
}

func (o *config) SetVersionMax(v tlsvrs.Version) {
	o.tlsMaxVersion = v
}

func (o *config) GetVersionMax() tlsvrs.Version {
	return o.tlsMaxVersion
}

func (o *config) SetCipherList(c []tlscpr.Cipher) {
	if c == nil {
		c = make([]tlscpr.Cipher, 0)
	}

	o.cipherList = c
}

func (o *config) AddCiphers(c ...tlscpr.Cipher) {
	o.cipherList = append(o.cipherList, c...)
}

func (o *config) GetCiphers() []tlscpr.Cipher {
	return append(make([]tlscpr.Cipher, 0), o.cipherList...)
}

func (o *config) SetDynamicSizingDisabled(flag bool) {
	o.dynSizingDisabled = flag
}

func (o *config) SetSessionTicketDisabled(flag bool) {
	o.ticketSessionDisabled = flag
}

func (o *config) Clone() TLSConfig {
	return &config{
		rand:                  o.rand,
		cert:                  append(make([]tlscrt.Cert, 0), o.cert...),
		cipherList:            append(make([]tlscpr.Cipher, 0), o.cipherList...),
		curveList:             append(make([]tlscrv.Curves, 0), o.curveList...),
		caRoot:                append(make([]tlscas.Cert, 0), o.caRoot...),
		clientAuth:            o.clientAuth,
		clientCA:              append(make([]tlscas.Cert, 0), o.clientCA...),
		tlsMinVersion:         o.tlsMinVersion,
		tlsMaxVersion:         o.tlsMaxVersion,
		dynSizingDisabled:     o.dynSizingDisabled,
		ticketSessionDisabled: o.ticketSessionDisabled,
	}
}

// TLS materializes the *tls.Config for one connection attempt.
func (o *config) TLS(serverName string) *tls.Config {
	/* #nosec */
	cfg := &tls.Config{
		Rand:                        o.rand,
		ServerName:                  serverName,
		InsecureSkipVerify:          false,
		DynamicRecordSizingDisabled: o.dynSizingDisabled,
		SessionTicketsDisabled:      o.ticketSessionDisabled,
	}

	if o.tlsMinVersion != tlsvrs.VersionUnknown {
		cfg.MinVersion = o.tlsMinVersion.TLS()
	}

	if o.tlsMaxVersion != tlsvrs.VersionUnknown {
		cfg.MaxVersion = o.tlsMaxVersion.TLS()
	}

	if len(o.cipherList) > 0 {
		cfg.CipherSuites = make([]uint16, 0, len(o.cipherList))
		for _, c := range o.cipherList {
			cfg.CipherSuites = append(cfg.CipherSuites, c.TLS())
		}
	}

	if len(o.curveList) > 0 {
		cfg.CurvePreferences = make([]tls.CurveID, 0, len(o.curveList))
		for _, c := range o.curveList {
			cfg.CurvePreferences = append(cfg.CurvePreferences, c.TLS())
		}
	}

	if len(o.caRoot) > 0 {
		cfg.RootCAs = o.GetRootCAPool()
	}

	if len(o.cert) > 0 {
		cfg.Certificates = o.GetCertificatePair()
	}

	if o.clientAuth != tlsaut.NoClientCert {
		cfg.ClientAuth = o.clientAuth.TLS()

		if len(o.clientCA) > 0 {
			cfg.ClientCAs = o.GetClientCAPool()
		}
	}

	return cfg
}

// TlsConfig is the historical spelling of TLS, kept for callers of the
// deprecated global surface.
func (o *config) TlsConfig(serverName string) *tls.Config {
	return o.TLS(serverName)
}

// Config exports the current state back into a serializable Config.
func (o *config) Config() *Config {
	cfg := &Config{
		CurveList:            append(make([]tlscrv.Curves, 0), o.curveList...),
		CipherList:           append(make([]tlscpr.Cipher, 0), o.cipherList...),
		RootCA:               append(make([]tlscas.Cert, 0), o.caRoot...),
		ClientCA:             append(make([]tlscas.Cert, 0), o.clientCA...),
		Certs:                make([]tlscrt.Certif, 0, len(o.cert)),
		VersionMin:           o.tlsMinVersion,
		VersionMax:           o.tlsMaxVersion,
		AuthClient:           o.clientAuth,
		DynamicSizingDisable: o.dynSizingDisabled,
		SessionTicketDisable: o.ticketSessionDisabled,
	}

	for _, c := range o.cert {
		cfg.Certs = append(cfg.Certs, c.Model())
	}

	return cfg
}
