// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to log, measure or
// otherwise observe its executions.
type Event int

const (
	// BeforeExecutionStart occurs before anything else. Only the
	// execution's Plan and Timeouts are set.
	BeforeExecutionStart Event = iota
	// BeforeIssue occurs immediately before the exchange is issued.
	BeforeIssue
	// AfterClassify occurs once the first chunk has been peeked (or
	// the connect bound has elapsed) and the execution's
	// Classification reflects the verdict.
	AfterClassify
	// AfterConnectTimeout occurs after AfterClassify when the exchange
	// could not connect within its connect bound. The body is never
	// read in that case.
	AfterConnectTimeout
	// BeforeReadBody occurs when the classifier let the exchange
	// through and the client is about to read the body.
	BeforeReadBody
	// AfterDurationTimeout occurs when the exchange connected but ran
	// out of time, whether that was detected during the peek or while
	// reading the body.
	AfterDurationTimeout
	// AfterExecutionEnd occurs last, after End has been set.
	AfterExecutionEnd

	eventSentinel
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeIssue",
	"AfterClassify",
	"AfterConnectTimeout",
	"BeforeReadBody",
	"AfterDurationTimeout",
	"AfterExecutionEnd",
}

// Events returns every event a Client can fire, in the order in which
// they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeIssue,
		AfterClassify,
		AfterConnectTimeout,
		BeforeReadBody,
		AfterDurationTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
