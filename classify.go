// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"context"
	"time"

	"github.com/gogama/peekx/transient"
)

// A Classifier decides whether a stalled exchange failed to connect or
// connected and then ran out of time. Its zero value is ready to use.
// A Classifier is safe for concurrent use by multiple goroutines.
type Classifier struct {
	// CancelOnDurationTimeout makes the classifier cancel a handle
	// when it reports a *DurationTimeoutError. By default a duration
	// timeout leaves the handle alone and cancelling it is up to the
	// caller.
	CancelOnDurationTimeout bool
}

// DefaultClassifier is the classifier used by Classify.
var DefaultClassifier = &Classifier{}

// Classify calls DefaultClassifier.Classify.
func Classify(h Handle, bound time.Duration) (Handle, error) {
	return DefaultClassifier.Classify(h, bound)
}

// Classify peeks at the first chunk of h, waiting at most bound for it,
// before the caller reads anything. If bound is not positive, the
// handle's own connect bound is used; if that is not set either, the
// peek waits as long as it takes.
//
// The outcomes are:
//
// • A chunk arrives in time. The result is nil, and the returned
// Handle replays the peeked chunk ahead of the rest of the sequence, so
// a full read yields the complete body.
//
// • Nothing arrives in time and h never connected. Classify cancels h
// and returns a *ConnectTimeoutError.
//
// • Nothing arrives in time but h has connected. The result is nil:
// the server is merely slow. If the exchange later exceeds its max
// duration, reads from the returned Handle fail with a
// *DurationTimeoutError.
//
// • h fails with a timeout. The error is a *DurationTimeoutError if h
// had connected, and otherwise h is cancelled and the error is a
// *ConnectTimeoutError.
//
// • h fails for any other reason. The error is returned unmodified, as
// soon as it is known.
//
// The returned Handle is never nil. After an error it keeps returning
// that same error from Next and ReadBody.
func (c *Classifier) Classify(h Handle, bound time.Duration) (Handle, error) {
	if h == nil {
		panic("peekx: nil handle")
	}
	if bound <= 0 {
		bound = h.Info().Timeouts.Connect
	}

	ctx := context.Background()
	if bound > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bound)
		defer cancel()
	}

	p := &peeked{Handle: h, classifier: c, bound: bound}
	first := h.Next(ctx)
	switch first.Kind {
	case TimeoutChunk:
		info := h.Info()
		if info.Connected() {
			return p, nil
		}
		h.Cancel()
		err := &ConnectTimeoutError{URL: info.URL, Bound: bound, Err: first.Err}
		p.fail(err)
		return p, err
	case FailedChunk:
		err := c.failure(h, bound, first.Err)
		p.fail(err)
		return p, err
	default:
		p.held = &first
		return p, nil
	}
}

// failure classifies the error ending h. The connection marker alone
// picks the kind of timeout.
func (c *Classifier) failure(h Handle, bound time.Duration, err error) error {
	if classified(err) || transient.Categorize(err) != transient.Timeout {
		return err
	}

	info := h.Info()
	if !info.Connected() {
		h.Cancel()
		return &ConnectTimeoutError{URL: info.URL, Bound: bound, Err: err}
	}

	if c.CancelOnDurationTimeout {
		h.Cancel()
	}
	return &DurationTimeoutError{
		URL:         info.URL,
		Max:         info.Timeouts.Max,
		ConnectTime: info.ConnectTime,
		Err:         err,
	}
}
