// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "Unclassified", Unclassified.String())
	assert.Equal(t, "Success", Success.String())
	assert.Equal(t, "ConnectTimeout", ConnectTimeout.String())
	assert.Equal(t, "DurationTimeout", DurationTimeout.String())
	assert.Equal(t, "Errored", Errored.String())
	assert.Equal(t, "Classification(?)", Classification(99).String())
	assert.Equal(t, "Classification(?)", Classification(-1).String())
}

func TestExecution_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		e := &Execution{Start: time.Now()}
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		time.Sleep(2 * time.Millisecond)
		assert.GreaterOrEqual(t, e.Duration(), 2*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		start := time.Now()
		e := &Execution{Start: start, End: start.Add(5 * time.Second)}
		assert.True(t, e.Ended())
		assert.Equal(t, 5*time.Second, e.Duration())
	})
}

func TestExecution_Connected(t *testing.T) {
	assert.False(t, (&Execution{}).Connected())
	assert.True(t, (&Execution{ConnectTime: time.Millisecond}).Connected())
}

func TestExecution_Timeout(t *testing.T) {
	assert.False(t, (&Execution{}).Timeout())
	assert.False(t, (&Execution{Err: errors.New("foo")}).Timeout())
	assert.True(t, (&Execution{Err: syscall.ETIMEDOUT}).Timeout())
	assert.True(t, (&Execution{Err: &url.Error{Op: "Get", URL: "x", Err: context.DeadlineExceeded}}).Timeout())
}

func TestExecution_Value(t *testing.T) {
	e := &Execution{}
	assert.Nil(t, e.Value(funKey{}))
	e.SetValue(funKey{}, "ham")
	e.SetValue(funkyKey{}, "eggs")
	assert.Equal(t, "ham", e.Value(funKey{}))
	assert.Equal(t, "eggs", e.Value(funkyKey{}))
	e.SetValue(funKey{}, "spam")
	assert.Equal(t, "spam", e.Value(funKey{}))
}

type funKey struct{}

type funkyKey struct{}
