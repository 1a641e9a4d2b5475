// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		cat  Category
	}{
		{"nil", nil, Not},
		{"plain", errors.New("foo"), Not},
		{"ETIMEDOUT", syscall.ETIMEDOUT, Timeout},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"canceled", context.Canceled, Not},
		{"url wrapped deadline", &url.Error{Op: "Get", URL: "u", Err: context.DeadlineExceeded}, Timeout},
		{"url wrapped fmt wrapped deadline", &url.Error{Op: "Get", URL: "u", Err: fmt.Errorf("read body: %w", context.DeadlineExceeded)}, Timeout},
		{"ECONNREFUSED", syscall.ECONNREFUSED, ConnRefused},
		{"wrapped ECONNREFUSED", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, ConnRefused},
		{"ECONNRESET", fmt.Errorf("read: %w", syscall.ECONNRESET), ConnReset},
		{"EHOSTUNREACH", syscall.EHOSTUNREACH, Unreachable},
		{"ENETUNREACH", syscall.ENETUNREACH, Unreachable},
		{"DNS", &url.Error{Op: "Get", URL: "u", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}}, DNS},
		{"DNS timeout", &net.DNSError{Err: "i/o timeout", Name: "slow.example", IsTimeout: true}, Timeout},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.cat, Categorize(testCase.err))
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "Not", Not.String())
	assert.Equal(t, "Timeout", Timeout.String())
	assert.Equal(t, "ConnRefused", ConnRefused.String())
	assert.Equal(t, "ConnReset", ConnReset.String())
	assert.Equal(t, "Unreachable", Unreachable.String())
	assert.Equal(t, "DNS", DNS.String())
	assert.Equal(t, "Category(?)", Category(42).String())
}
