// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/peekx/request"
)

// A Policy chooses the timeout bounds for a plan which does not set
// them itself.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeouts returns the bounds to use for p. Zero fields mean the
	// corresponding bound is not enforced.
	Timeouts(p *request.Plan) request.Timeouts
}

// DefaultPolicy waits 5 seconds for a connection and puts no overall
// deadline on the exchange.
var DefaultPolicy Policy = Fixed(5*time.Second, 0)

// Infinite is a policy which enforces neither bound.
var Infinite Policy = Fixed(0, 0)

// Fixed constructs a policy which returns the same bounds for every
// plan. A non-positive value disables the corresponding bound.
func Fixed(connect, max time.Duration) Policy {
	if connect < 0 {
		connect = 0
	}
	if max < 0 {
		max = 0
	}
	return fixed{Connect: connect, Max: max}
}

type fixed request.Timeouts

func (f fixed) Timeouts(_ *request.Plan) request.Timeouts {
	return request.Timeouts(f)
}

// The PolicyFunc type is an adapter to allow the use of ordinary
// functions as timeout policies.
type PolicyFunc func(p *request.Plan) request.Timeouts

// Timeouts returns f(p).
func (f PolicyFunc) Timeouts(p *request.Plan) request.Timeouts {
	return f(p)
}

// Resolve merges the plan's own bounds with those chosen by policy,
// which defaults to DefaultPolicy when nil.
func Resolve(policy Policy, p *request.Plan) request.Timeouts {
	if policy == nil {
		policy = DefaultPolicy
	}
	return p.Timeouts.Or(policy.Timeouts(p))
}
