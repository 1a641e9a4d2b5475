// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gogama/peekx/request"
	"github.com/gogama/peekx/transient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport(t *testing.T) {
	for _, server := range servers {
		server := server
		t.Run(serverName(server), func(t *testing.T) {
			t.Run("happy path", func(t *testing.T) { testTransportHappyPath(t, server) })
			t.Run("chunk size", func(t *testing.T) { testTransportChunkSize(t, server) })
			t.Run("max duration", func(t *testing.T) { testTransportMaxDuration(t, server) })
			t.Run("cancel", func(t *testing.T) { testTransportCancel(t, server) })
		})
	}
	t.Run("never connects", testTransportNeverConnects)
	t.Run("refused", testTransportRefused)
	t.Run("stalled handshake", testTransportStalledHandshake)
	t.Run("ready chunk beats done context", testTransportReadyChunkFirst)
	t.Run("nil plan", func(t *testing.T) {
		assert.PanicsWithValue(t, "peekx: nil plan", func() { (&Transport{}).Issue(nil) })
	})
}

func testTransportHappyPath(t *testing.T, server *httptest.Server) {
	t.Parallel()
	inst := &serverInstruction{
		StatusCode: 201,
		Body: []bodyChunk{
			{Data: []byte("foo")},
			{Pause: 10 * time.Millisecond, Data: []byte("bar")},
		},
	}
	tr := &Transport{HTTPDoer: server.Client()}

	h := tr.Issue(inst.toPlan(context.Background(), server, request.Timeouts{Connect: time.Second, Max: 5 * time.Second}))

	require.NotNil(t, h)
	first := h.Next(context.Background())
	assert.Equal(t, HeaderChunk, first.Kind)
	info := h.Info()
	assert.Equal(t, 201, info.StatusCode)
	assert.NotNil(t, info.Header)
	assert.True(t, info.Connected())
	assert.Equal(t, server.URL, info.URL)
	assert.Equal(t, request.Timeouts{Connect: time.Second, Max: 5 * time.Second}, info.Timeouts)
	assert.False(t, info.Canceled)
	b, err := h.ReadBody(false)
	assert.NoError(t, err)
	assert.Equal(t, "foobar", string(b))
	assert.Equal(t, EndChunk, h.Next(context.Background()).Kind)
	_, err = h.ReadBody(true)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func testTransportChunkSize(t *testing.T, server *httptest.Server) {
	t.Parallel()
	inst := &serverInstruction{
		StatusCode: 200,
		Body:       []bodyChunk{{Data: []byte("hello, world")}},
	}
	tr := &Transport{HTTPDoer: server.Client(), ChunkSize: 2}

	h := tr.Issue(inst.toPlan(context.Background(), server, request.Timeouts{}))

	var body []byte
	for c := h.Next(context.Background()); !c.Terminal(); c = h.Next(context.Background()) {
		if c.Kind == DataChunk {
			assert.LessOrEqual(t, len(c.Data), 2)
			body = append(body, c.Data...)
		}
	}
	assert.Equal(t, "hello, world", string(body))
}

func testTransportMaxDuration(t *testing.T, server *httptest.Server) {
	t.Parallel()
	inst := &serverInstruction{
		HeaderPause: 500 * time.Millisecond,
		StatusCode:  200,
	}
	tr := &Transport{HTTPDoer: server.Client()}

	start := time.Now()
	h := tr.Issue(inst.toPlan(context.Background(), server, request.Timeouts{Max: 100 * time.Millisecond}))
	c := h.Next(context.Background())
	elapsed := time.Since(start)

	assert.Equal(t, FailedChunk, c.Kind)
	assert.Equal(t, transient.Timeout, transient.Categorize(c.Err))
	assert.IsType(t, &url.Error{}, c.Err)
	assert.True(t, h.Info().Connected())
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Same(t, c.Err, h.Next(context.Background()).Err)
}

func testTransportCancel(t *testing.T, server *httptest.Server) {
	t.Parallel()
	inst := &serverInstruction{
		HeaderPause: time.Second,
		StatusCode:  200,
	}
	tr := &Transport{HTTPDoer: server.Client()}
	h := tr.Issue(inst.toPlan(context.Background(), server, request.Timeouts{}))

	c := h.Next(timeoutContext(t, 20*time.Millisecond))
	assert.Equal(t, TimeoutChunk, c.Kind)
	h.Cancel()
	h.Cancel()

	assert.True(t, h.Info().Canceled)
	c = h.Next(context.Background())
	assert.Equal(t, FailedChunk, c.Kind)
	assert.ErrorIs(t, c.Err, context.Canceled)
}

func testTransportNeverConnects(t *testing.T) {
	t.Parallel()
	doer := newStallDoer()
	tr := &Transport{HTTPDoer: doer}
	p, err := request.NewPlan("GET", "http://192.0.2.1", nil)
	require.NoError(t, err)

	h := tr.Issue(p.WithTimeouts(request.Timeouts{Max: 50 * time.Millisecond}))
	r := <-doer.requests

	assert.Equal(t, TimeoutChunk, h.Next(timeoutContext(t, 10*time.Millisecond)).Kind)
	assert.False(t, h.Info().Connected())
	c := h.Next(context.Background())
	assert.Equal(t, FailedChunk, c.Kind)
	assert.ErrorIs(t, c.Err, context.DeadlineExceeded)
	assert.False(t, h.Info().Connected())
	assert.Equal(t, context.DeadlineExceeded, r.Context().Err())
}

func testTransportRefused(t *testing.T) {
	t.Parallel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	p, err := request.NewPlan("GET", "http://"+addr, nil)
	require.NoError(t, err)
	tr := &Transport{HTTPDoer: &http.Client{}}

	h := tr.Issue(p)
	c := h.Next(context.Background())

	assert.Equal(t, FailedChunk, c.Kind)
	assert.Equal(t, transient.ConnRefused, transient.Categorize(c.Err))
	assert.False(t, h.Info().Connected())
}

func testTransportStalledHandshake(t *testing.T) {
	t.Parallel()
	addr := stallListener(t)
	p, err := request.NewPlan("GET", "https://"+addr, nil)
	require.NoError(t, err)
	tr := &Transport{HTTPDoer: &http.Client{}}

	h := tr.Issue(p)
	defer h.Cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	c := h.Next(ctx)

	assert.Equal(t, TimeoutChunk, c.Kind)
	assert.True(t, h.Info().Connected())
}

func testTransportReadyChunkFirst(t *testing.T) {
	t.Parallel()
	done, cancel := context.WithCancel(context.Background())
	cancel()
	inst := &serverInstruction{StatusCode: 200, Body: []bodyChunk{{Data: []byte("x")}}}
	tr := &Transport{HTTPDoer: httpServer.Client()}

	for i := 0; i < 20; i++ {
		h := tr.Issue(inst.toPlan(context.Background(), httpServer, request.Timeouts{}))
		require.Eventually(t, func() bool { return h.Info().StatusCode != 0 }, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)

		assert.Equal(t, HeaderChunk, h.Next(done).Kind)
		h.Cancel()
	}
}

// stallListener accepts TCP connections and never answers on them, so
// a TLS handshake never completes. It returns the listening address.
func stallListener(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		_ = l.Close()
	})
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				<-done
				_ = conn.Close()
			}()
		}
	}()
	return l.Addr().String()
}

func TestURLErrorOp(t *testing.T) {
	assert.Equal(t, "Get", urlErrorOp(""))
	assert.Equal(t, "Get", urlErrorOp("GET"))
	assert.Equal(t, "X", urlErrorOp("X"))
	assert.Equal(t, "Put", urlErrorOp("PUT"))
}

func timeoutContext(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
