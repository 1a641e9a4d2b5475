// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

const nilCtxMsg = "peekx/request: nil context"

// Timeouts holds the two bounds which govern a single exchange.
//
// Connect is the maximum wait for the exchange to establish a
// connection. Max is the maximum wall-clock duration of the entire
// exchange, including connecting and transferring the response body.
// A zero value for either field means "not set".
type Timeouts struct {
	Connect time.Duration
	Max     time.Duration
}

// Or returns t with every unset field replaced by the corresponding
// field of fallback.
func (t Timeouts) Or(fallback Timeouts) Timeouts {
	if t.Connect <= 0 {
		t.Connect = fallback.Connect
	}
	if t.Max <= 0 {
		t.Max = fallback.Max
	}
	return t
}

// String formats t as "connect=<d> max=<d>", rendering unset bounds
// as "none".
func (t Timeouts) String() string {
	return fmt.Sprintf("connect=%s max=%s", fmtBound(t.Connect), fmtBound(t.Max))
}

func fmtBound(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

// A Plan describes one logical HTTP request. Once a Plan has been
// issued it must not be modified; use WithContext or WithTimeouts to
// derive a changed copy.
//
// The field structure mirrors the client-side fields of http.Request
// (net/http), except that the body is pre-buffered and the plan carries
// its own timeout bounds.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host will be sent.
	Host string

	// Timeouts optionally overrides the bounds chosen by the client's
	// timeout policy. Unset fields defer to the policy.
	Timeouts Timeouts

	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. Readers are read to the end and
// buffered; an io.ReadCloser is closed after buffering.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if strings.IndexFunc(method, notToken) != -1 {
		return nil, fmt.Errorf("peekx/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

func notToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// Context returns the plan's context. The returned context is always
// non-nil; it defaults to the background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
//
// Cancelling the context cancels the exchange at any stage, including
// while the client is waiting on the connect bound.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// WithTimeouts returns a shallow copy of p with its timeout bounds
// replaced by t.
func (p *Plan) WithTimeouts(t Timeouts) *Plan {
	p2 := new(Plan)
	*p2 = *p
	p2.Timeouts = t
	return p2
}

// ToRequest creates an HTTP request corresponding to the plan. The
// context of the new request is set to ctx, which may not be nil.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r := &http.Request{
		Method:     p.Method,
		URL:        p.URL,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     p.Header,
		Host:       p.Host,
	}
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	return r.WithContext(ctx)
}
