// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package peekx tells apart the two ways an HTTP request runs out of
time: it never connected within the connect bound, or it connected and
then failed to finish within its max duration.

Reading a slow response body blurs that distinction, because by the
time the read fails the reason is lost. peekx fixes the order of
operations instead: before the caller reads anything, the classifier
peeks at the first chunk of the exchange under the connect bound and
uses the connection-established marker to decide which kind of timeout
applies. The peeked chunk is replayed, so the caller still reads the
complete body.

Most callers use a Client:

	client := &peekx.Client{
		TimeoutPolicy: timeout.Fixed(3*time.Second, 10*time.Second),
	}
	e, err := client.Get("http://localhost:8000/sleep")
	var connectErr *peekx.ConnectTimeoutError
	var durationErr *peekx.DurationTimeoutError
	switch {
	case errors.As(err, &connectErr):
		... // never connected; the exchange was cancelled
	case errors.As(err, &durationErr):
		... // connected, but too slow
	case err != nil:
		... // DNS failure, refused connection, etc.
	}

Callers which stream the body themselves issue the exchange and
classify it before touching the body:

	issued := client.Issue(plan)
	h, err := peekx.Classify(issued, 3*time.Second)
	if err != nil {
		...
	}
	for c := h.Next(ctx); !c.Terminal(); c = h.Next(ctx) {
		...
	}

Any Handle implementation can be classified. Transport is the one
built on net/http; it marks the connection as established from an
httptrace.ClientTrace.

To observe executions, install handlers into the client's HandlerGroup:

	handlers := &peekx.HandlerGroup{}
	handlers.PushBack(peekx.AfterClassify, peekx.HandlerFunc(
		func(_ peekx.Event, e *request.Execution) {
			log.Printf("%s %s: %s", e.Plan.Method, e.Plan.URL, e.Classification)
		}))
*/
package peekx
