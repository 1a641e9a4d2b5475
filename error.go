// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogama/peekx/request"
)

// A ConnectTimeoutError reports that an exchange never established a
// connection within its connect bound. By the time it is returned the
// exchange has been cancelled.
type ConnectTimeoutError struct {
	// URL is the URL requested.
	URL string
	// Bound is the connect bound that elapsed.
	Bound time.Duration
	// Err is the original timeout cause.
	Err error
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("peekx: no connection to %s within %s: %v", e.URL, e.Bound, e.Err)
}

// Unwrap returns the original timeout cause.
func (e *ConnectTimeoutError) Unwrap() error {
	return e.Err
}

// Timeout always returns true.
func (e *ConnectTimeoutError) Timeout() bool {
	return true
}

// A DurationTimeoutError reports that an exchange connected but did not
// complete before its overall deadline. The classifier does not cancel
// the exchange unless Classifier.CancelOnDurationTimeout is set.
type DurationTimeoutError struct {
	// URL is the URL requested.
	URL string
	// Max is the max duration bound in effect, or zero if the deadline
	// came from the plan's context instead.
	Max time.Duration
	// ConnectTime is how long the exchange took to connect.
	ConnectTime time.Duration
	// Err is the original timeout cause, unmodified.
	Err error
}

func (e *DurationTimeoutError) Error() string {
	deadline := "its deadline"
	if e.Max > 0 {
		deadline = e.Max.String()
	}
	return fmt.Sprintf("peekx: %s connected after %s but did not complete within %s: %v",
		e.URL, e.ConnectTime, deadline, e.Err)
}

// Unwrap returns the original timeout cause.
func (e *DurationTimeoutError) Unwrap() error {
	return e.Err
}

// Timeout always returns true.
func (e *DurationTimeoutError) Timeout() bool {
	return true
}

// A StatusError is returned by Handle.ReadBody when status checking is
// requested and the response status code is 300 or above.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("peekx: HTTP %d returned for %q", e.StatusCode, e.URL)
}

// ClassificationOf maps an error returned by Classify, or by a
// classified Handle, onto its classification. A nil error is Success.
func ClassificationOf(err error) request.Classification {
	var connectErr *ConnectTimeoutError
	var durationErr *DurationTimeoutError
	switch {
	case err == nil:
		return request.Success
	case errors.As(err, &connectErr):
		return request.ConnectTimeout
	case errors.As(err, &durationErr):
		return request.DurationTimeout
	default:
		return request.Errored
	}
}

func classified(err error) bool {
	c := ClassificationOf(err)
	return c == request.ConnectTimeout || c == request.DurationTimeout
}
