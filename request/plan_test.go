// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			p, err := NewPlan(testCase.method, testCase.url, testCase.body)
			testCase.asserts(t, p, err)
			if p != nil {
				assert.True(t, p.Context() == context.Background())
			}
		})
	}
}

func TestNewPlanWithContext(t *testing.T) {
	type foo struct{}
	ctx := context.WithValue(context.Background(), foo{}, "bar")
	for _, testCase := range newPlanTestCases {
		t.Run(testCase.name+" with special context", func(t *testing.T) {
			p, err := NewPlanWithContext(ctx, testCase.method, testCase.url, testCase.body)
			testCase.asserts(t, p, err)
			if p != nil {
				assert.Same(t, ctx, p.Context())
			}
		})
	}
	t.Run("nil context", func(t *testing.T) {
		//lint:ignore SA1012 testing nil context rejection
		p, err := NewPlanWithContext(nil, "GET", "http://foo", nil)
		assert.Nil(t, p)
		assert.EqualError(t, err, nilCtxMsg)
	})
}

var newPlanTestCases = []struct {
	name    string
	method  string
	url     string
	body    interface{}
	asserts func(*testing.T, *Plan, error)
}{
	{
		name:   "empty method means GET",
		method: "",
		url:    "https://foo.com",
		asserts: func(t *testing.T, p *Plan, err error) {
			require.NoError(t, err)
			assert.Equal(t, "GET", p.Method)
			assert.Equal(t, "https://foo.com", p.URL.String())
			assert.Equal(t, "foo.com", p.Host)
			assert.Nil(t, p.Body)
			assert.NotNil(t, p.Header)
			assert.Equal(t, Timeouts{}, p.Timeouts)
		},
	},
	{
		name:   "extension method",
		method: "PURGE",
		url:    "http://bar.com/sleep.php",
		body:   "baz",
		asserts: func(t *testing.T, p *Plan, err error) {
			require.NoError(t, err)
			assert.Equal(t, "PURGE", p.Method)
			assert.Equal(t, []byte("baz"), p.Body)
		},
	},
	{
		name:   "remove empty port",
		method: "GET",
		url:    "http://ham:",
		asserts: func(t *testing.T, p *Plan, err error) {
			require.NoError(t, err)
			assert.Equal(t, "ham", p.Host)
			assert.Equal(t, "ham", p.URL.Host)
		},
	},
	{
		name:   "invalid method",
		method: "GET THIS",
		url:    "http://eggs",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, `peekx/request: invalid method "GET THIS"`)
		},
	},
	{
		name:   "invalid URL",
		method: "GET",
		url:    ":::",
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.Error(t, err)
		},
	},
	{
		name:   "invalid body",
		method: "POST",
		url:    "http://spam",
		body:   3.14,
		asserts: func(t *testing.T, p *Plan, err error) {
			assert.Nil(t, p)
			assert.EqualError(t, err, badBodyTypeMsg)
		},
	},
}

func TestPlan_WithContext(t *testing.T) {
	p, err := NewPlan("GET", "http://foo", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p2 := p.WithContext(ctx)
	assert.NotSame(t, p, p2)
	assert.Same(t, ctx, p2.Context())
	assert.True(t, p.Context() == context.Background())
	assert.PanicsWithValue(t, nilCtxMsg, func() {
		//lint:ignore SA1012 testing nil context rejection
		p.WithContext(nil)
	})
}

func TestPlan_WithTimeouts(t *testing.T) {
	p, err := NewPlan("GET", "http://foo", nil)
	require.NoError(t, err)
	p2 := p.WithTimeouts(Timeouts{Connect: 3 * time.Second, Max: 4 * time.Second})
	assert.NotSame(t, p, p2)
	assert.Equal(t, Timeouts{}, p.Timeouts)
	assert.Equal(t, 3*time.Second, p2.Timeouts.Connect)
	assert.Equal(t, 4*time.Second, p2.Timeouts.Max)
	assert.Same(t, p.URL, p2.URL)
}

func TestPlan_ToRequest(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		p, err := NewPlan("", "http://foo/sleep", nil)
		require.NoError(t, err)
		p.Header.Set("X-Foo", "bar")
		r := p.ToRequest(context.Background())
		assert.Equal(t, "GET", r.Method)
		assert.Same(t, p.URL, r.URL)
		assert.Equal(t, "bar", r.Header.Get("X-Foo"))
		assert.Equal(t, "foo", r.Host)
		assert.Nil(t, r.Body)
		assert.Equal(t, int64(0), r.ContentLength)
	})
	t.Run("with body", func(t *testing.T) {
		p, err := NewPlan("POST", "http://foo", strings.NewReader("ham"))
		require.NoError(t, err)
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, 1)
		r := p.ToRequest(ctx)
		assert.Same(t, ctx, r.Context())
		assert.Equal(t, int64(3), r.ContentLength)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "ham", string(b))
		rc, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "ham", string(b))
	})
}

func TestTimeouts(t *testing.T) {
	t.Run("Or", func(t *testing.T) {
		fallback := Timeouts{Connect: time.Second, Max: time.Minute}
		assert.Equal(t, fallback, Timeouts{}.Or(fallback))
		assert.Equal(t, Timeouts{Connect: 3 * time.Second, Max: time.Minute},
			Timeouts{Connect: 3 * time.Second}.Or(fallback))
		assert.Equal(t, Timeouts{Connect: time.Second, Max: 4 * time.Second},
			Timeouts{Connect: -1, Max: 4 * time.Second}.Or(fallback))
	})
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "connect=none max=none", Timeouts{}.String())
		assert.Equal(t, "connect=3s max=10s", Timeouts{Connect: 3 * time.Second, Max: 10 * time.Second}.String())
	})
}
