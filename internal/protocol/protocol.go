// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package protocol builds the http.Client used for outgoing exchanges.
package protocol

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gogama/peekx/internal/config"
	"golang.org/x/net/http2"
)

// NewClient returns an http.Client speaking the configured protocol.
//
// The dialers carry no timeout of their own: the connect bound belongs
// to the classifier, and the max duration to the exchange context.
// Redirects are not followed.
func NewClient(cfg config.Client) (*http.Client, error) {
	var rt http.RoundTripper
	switch cfg.Protocol {
	case config.ProtocolHTTP, "":
		rt = newHTTPTransport(cfg)
	case config.ProtocolHTTP2:
		rt = newHTTP2Transport(cfg)
	default:
		return nil, fmt.Errorf("protocol: unknown protocol %q", cfg.Protocol)
	}

	return &http.Client{
		Transport: rt,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

func dialer() *net.Dialer {
	return &net.Dialer{KeepAlive: 30 * time.Second}
}

func newHTTPTransport(cfg config.Client) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer().DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.TLSInsecure,
		},
	}
}

// h2Transport speaks HTTP/2 over TLS to https URLs and prior knowledge
// cleartext HTTP/2 (h2c) to http URLs.
type h2Transport struct {
	cleartext *http2.Transport
	tls       *http2.Transport
}

func newHTTP2Transport(cfg config.Client) *h2Transport {
	return &h2Transport{
		cleartext: &http2.Transport{
			AllowHTTP:       true,
			IdleConnTimeout: cfg.IdleConnTimeout,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialer().DialContext(ctx, network, addr)
			},
		},
		tls: &http2.Transport{
			IdleConnTimeout: cfg.IdleConnTimeout,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSInsecure,
			},
		},
	}
}

func (t *h2Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Scheme == "http" {
		return t.cleartext.RoundTrip(r)
	}
	return t.tls.RoundTrip(r)
}

func (t *h2Transport) CloseIdleConnections() {
	t.cleartext.CloseIdleConnections()
	t.tls.CloseIdleConnections()
}
