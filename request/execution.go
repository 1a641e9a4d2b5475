// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/peekx/transient"
)

// A Classification is the verdict reached about an exchange once its
// first chunk has been peeked, and possibly revised when its body is
// read.
type Classification int

const (
	// Unclassified means no verdict has been reached yet.
	Unclassified Classification = iota
	// Success means the exchange produced a response (or is still
	// producing one) over an established connection, and no bound has
	// been exceeded.
	Success
	// ConnectTimeout means no connection was established within the
	// connect bound. The exchange was cancelled.
	ConnectTimeout
	// DurationTimeout means a connection was established but the
	// exchange did not complete within the max duration bound.
	DurationTimeout
	// Errored means the exchange failed for a reason unrelated to
	// timing, for example a DNS failure or a refused connection.
	Errored
)

var classificationNames = []string{
	"Unclassified",
	"Success",
	"ConnectTimeout",
	"DurationTimeout",
	"Errored",
}

// String returns the name of the classification.
func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return "Classification(?)"
	}
	return classificationNames[c]
}

// An Execution records the state of a single Plan as it is issued,
// classified and read.
//
// Event handlers may store their own data on an Execution using
// SetValue, but should otherwise treat its fields as read-only.
type Execution struct {
	// Plan is the plan being executed. It is never nil.
	Plan *Plan

	// Timeouts are the bounds in effect for the exchange, after the
	// plan's own bounds have been merged with the client policy.
	Timeouts Timeouts

	// Start is set when the exchange is issued. End is set when the
	// execution finishes, whatever its outcome.
	Start time.Time
	End   time.Time

	// ConnectTime is the time between Start and the moment a
	// connection was established. It is zero if the exchange never
	// connected.
	ConnectTime time.Duration

	// Classification is the timeout verdict for the exchange.
	Classification Classification

	// StatusCode and Header are copied from the HTTP response once its
	// headers arrive. They are zero/nil if no response was received.
	StatusCode int
	Header     http.Header

	// Body is the response body read after classification. It may be
	// partial if Err is non-nil.
	Body []byte

	// Err is the error which ended the execution, if any. It is the
	// same value returned by the client.
	Err error

	data context.Context
}

// Duration returns End minus Start for an ended execution, the time
// elapsed since Start for an in-flight one, and zero before Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the exchange has been issued.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Connected indicates whether the exchange ever established a
// connection.
func (e *Execution) Connected() bool {
	return e.ConnectTime > 0
}

// Timeout indicates whether Err is a timeout of either kind.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores arbitrary handler data in the execution. The key
// must follow the rules of context.WithValue.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data associated with key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.Value(key)
}
