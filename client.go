// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"net/http"
	"time"

	"github.com/gogama/peekx/request"
	"github.com/gogama/peekx/timeout"
)

var emptyHandlers = HandlerGroup{}

// A Client issues HTTP requests and classifies their timeouts. Its zero
// value is a valid configuration: http.DefaultClient sends requests,
// timeout.DefaultPolicy picks the bounds and DefaultClassifier makes
// the call.
//
// Client is safe for concurrent use by multiple goroutines. Every
// execution is independent of every other.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses. If nil, http.DefaultClient is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy chooses the bounds of plans which don't set their
	// own. If nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Classifier classifies timeouts. If nil, DefaultClassifier is
	// used.
	Classifier *Classifier
	// Handlers are invoked when designated events occur during an
	// execution. If nil, no handlers are run.
	Handlers *HandlerGroup
	// ChunkSize is the largest body chunk delivered by issued handles.
	// If zero, DefaultChunkSize is used.
	ChunkSize int
}

// Issue resolves the plan's timeout bounds against the client's timeout
// policy and starts the exchange, without classifying it. Use Issue
// with Classify for streaming use cases, and Do otherwise.
func (c *Client) Issue(p *request.Plan) Handle {
	return c.transport().Issue(p.WithTimeouts(timeout.Resolve(c.TimeoutPolicy, p)))
}

// Do issues the plan, classifies it, and reads the whole response body
// when the classifier lets it through.
//
// The returned Execution is never nil and its Err field always holds
// the returned error. The error is a *ConnectTimeoutError if no
// connection was made within the connect bound, a
// *DurationTimeoutError if the exchange connected but exceeded its max
// duration, and otherwise the transport error unmodified (typically a
// *url.Error). A non-2XX status code is not an error.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := &request.Execution{
		Plan:     p,
		Timeouts: timeout.Resolve(c.TimeoutPolicy, p),
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, e)

	handlers.run(BeforeIssue, e)
	h := c.transport().Issue(p.WithTimeouts(e.Timeouts))
	e.Start = h.Info().Start

	h, err := c.classifier().Classify(h, e.Timeouts.Connect)
	record(e, h, err)
	handlers.run(AfterClassify, e)

	switch e.Classification {
	case request.ConnectTimeout:
		handlers.run(AfterConnectTimeout, e)
	case request.DurationTimeout:
		handlers.run(AfterDurationTimeout, e)
	case request.Success:
		handlers.run(BeforeReadBody, e)
		e.Body, err = h.ReadBody(false)
		record(e, h, err)
		if e.Classification == request.DurationTimeout {
			handlers.run(AfterDurationTimeout, e)
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	return e, e.Err
}

func record(e *request.Execution, h Handle, err error) {
	info := h.Info()
	e.ConnectTime = info.ConnectTime
	e.StatusCode = info.StatusCode
	e.Header = info.Header
	e.Err = err
	e.Classification = ClassificationOf(err)
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
func (c *Client) Head(url string) (*request.Execution, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do. The body may be nil, a string, []byte, io.Reader or
// io.ReadCloser.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// CloseIdleConnections invokes the same method on the client's
// HTTPDoer, if it has one.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}
	return c.HTTPDoer
}

func (c *Client) transport() *Transport {
	return &Transport{HTTPDoer: c.doer(), ChunkSize: c.ChunkSize}
}

func (c *Client) classifier() *Classifier {
	if c.Classifier == nil {
		return DefaultClassifier
	}
	return c.Classifier
}
