// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogama/peekx/request"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// DefaultChunkSize is the largest body chunk Transport delivers when
// ChunkSize is not set.
const DefaultChunkSize = 16 << 10

// Transport issues exchanges through an HTTPDoer. Its zero value uses
// http.DefaultClient.
//
// Each exchange runs on its own goroutine under a context derived from
// the plan's context. If the plan's Max bound is set, it becomes the
// context deadline. The plan's Connect bound is not enforced by
// Transport; it is the Classifier's job.
//
// The exchange goroutine exits once its final chunk has been consumed,
// or once the exchange is cancelled or exceeds its deadline. Callers
// which abandon a Handle before the end must Cancel it.
type Transport struct {
	// HTTPDoer sends the request. If nil, http.DefaultClient is used.
	HTTPDoer HTTPDoer

	// ChunkSize is the largest body chunk delivered. If zero or
	// negative, DefaultChunkSize is used.
	ChunkSize int
}

// Issue starts the exchange described by p and returns immediately.
func (t *Transport) Issue(p *request.Plan) Handle {
	if p == nil {
		panic("peekx: nil plan")
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if p.Timeouts.Max > 0 {
		ctx, cancel = context.WithTimeout(p.Context(), p.Timeouts.Max)
	} else {
		ctx, cancel = context.WithCancel(p.Context())
	}

	x := &exchange{
		plan:   p,
		start:  time.Now(),
		ctx:    ctx,
		cancel: cancel,
		chunks: make(chan Chunk),
	}
	// A new connection counts once TCP is up, before any TLS
	// handshake. Pooled connections only report GotConn.
	trace := &httptrace.ClientTrace{
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				x.markConnected()
			}
		},
		GotConn: func(httptrace.GotConnInfo) {
			x.markConnected()
		},
	}
	r := p.ToRequest(httptrace.WithClientTrace(ctx, trace))
	go x.run(t.doer(), r, t.chunkSize())
	return x
}

func (t *Transport) doer() HTTPDoer {
	if t.HTTPDoer == nil {
		return http.DefaultClient
	}
	return t.HTTPDoer
}

func (t *Transport) chunkSize() int {
	if t.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return t.ChunkSize
}

type exchange struct {
	plan   *request.Plan
	start  time.Time
	ctx    context.Context
	cancel context.CancelFunc
	chunks chan Chunk

	connectNanos atomic.Int64
	canceled     atomic.Bool
	cancelOnce   sync.Once

	lock sync.Mutex
	resp *http.Response

	// Only touched by the consuming goroutine.
	last *Chunk
}

func (x *exchange) run(doer HTTPDoer, r *http.Request, size int) {
	defer close(x.chunks)
	defer x.cancel()

	resp, err := doer.Do(r)
	if err != nil {
		x.send(x.failure(err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Doers which ignore client traces still prove the connection by
	// returning a response.
	x.markConnected()
	x.lock.Lock()
	x.resp = resp
	x.lock.Unlock()
	if !x.send(Chunk{Kind: HeaderChunk}) {
		return
	}

	for {
		buf := make([]byte, size)
		n, err := resp.Body.Read(buf)
		if n > 0 && !x.send(Chunk{Kind: DataChunk, Data: buf[:n]}) {
			return
		}
		if err == io.EOF {
			x.send(Chunk{Kind: EndChunk})
			return
		} else if err != nil {
			x.send(x.failure(err))
			return
		}
	}
}

// failure reports err, unless the exchange context is already done, in
// which case err is only a symptom and the context error is reported.
func (x *exchange) failure(err error) Chunk {
	if ctxErr := x.ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return Chunk{Kind: FailedChunk, Err: x.wrap(err)}
}

func (x *exchange) send(c Chunk) bool {
	select {
	case x.chunks <- c:
		return true
	case <-x.ctx.Done():
		return false
	}
}

func (x *exchange) markConnected() {
	d := time.Since(x.start)
	if d <= 0 {
		d = 1
	}
	x.connectNanos.CompareAndSwap(0, int64(d))
}

func (x *exchange) Next(ctx context.Context) Chunk {
	if x.last != nil {
		return *x.last
	}

	// A ready chunk wins over a done ctx.
	select {
	case c, ok := <-x.chunks:
		return x.received(c, ok)
	default:
	}

	select {
	case c, ok := <-x.chunks:
		return x.received(c, ok)
	case <-ctx.Done():
		return Chunk{Kind: TimeoutChunk, Err: ctx.Err()}
	}
}

func (x *exchange) received(c Chunk, ok bool) Chunk {
	if !ok {
		c = Chunk{Kind: FailedChunk, Err: x.wrap(x.doneErr())}
	}
	if c.Terminal() {
		x.last = &c
	}
	return c
}

func (x *exchange) doneErr() error {
	if err := x.ctx.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func (x *exchange) Info() Info {
	i := Info{
		URL:         x.plan.URL.String(),
		Start:       x.start,
		ConnectTime: time.Duration(x.connectNanos.Load()),
		Timeouts:    x.plan.Timeouts,
		Canceled:    x.canceled.Load(),
	}
	x.lock.Lock()
	if x.resp != nil {
		i.StatusCode = x.resp.StatusCode
		i.Header = x.resp.Header
	}
	x.lock.Unlock()
	return i
}

func (x *exchange) Cancel() {
	x.cancelOnce.Do(func() {
		x.canceled.Store(true)
		x.cancel()
	})
}

func (x *exchange) ReadBody(checkStatus bool) ([]byte, error) {
	return readAll(x, checkStatus)
}

func (x *exchange) wrap(err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(x.plan.Method),
		URL: x.plan.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
