// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"net"
	"syscall"
)

// A Category is the category of a particular exchange error, as
// reported by Categorize.
type Category int

const (
	// Not indicates a nil error, or an error which fits no other
	// category.
	Not Category = iota
	// Timeout indicates the error, or one of its wrapped causes, has a
	// Timeout method that reports true. Both connect timeouts and
	// duration timeouts fall into this category.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED).
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// Unreachable indicates no route to the remote host or network
	// (syscall.EHOSTUNREACH or syscall.ENETUNREACH).
	Unreachable
	// DNS indicates a name resolution failure that was not itself a
	// timeout.
	DNS
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Unreachable",
	"DNS",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[c]
}

// Categorize returns the category of the given error, looking through
// every wrapped cause. Timeout takes precedence over every other category,
// so a DNS lookup which timed out is a Timeout.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if timedOut(err) {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return ConnRefused
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return Unreachable
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}

// timedOut walks the whole chain because an outer error, such as a
// *url.Error, may report false for a cause it does not recognize.
func timedOut(err error) bool {
	for err != nil {
		if t, ok := err.(hasTimeout); ok && t.Timeout() {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
