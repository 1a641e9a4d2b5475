// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes a logical HTTP
request and its timeout bounds) and Execution (records what happened
when a Plan was issued, classified and read).

Create a plan, optionally with its own timeout bounds:

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	p = p.WithTimeouts(request.Timeouts{
		Connect: 3 * time.Second,
		Max:     10 * time.Second,
	})
	e, err := client.Do(p)

The two bounds answer different questions. Connect is the longest the
client waits for the exchange to show any sign of life before deciding
the remote host could not be reached. Max is the wall-clock deadline for
the whole exchange, connection and transfer included. A zero bound in a
plan defers to the client's timeout policy.

Execution is the output type of peekx.Client.Do and the input type of
event handlers. You will typically not allocate Execution instances
yourself.
*/
package request
