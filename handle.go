// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gogama/peekx/request"
)

// A Handle is an in-flight or completed HTTP exchange.
//
// Next and ReadBody consume the same underlying sequence and must not
// be called concurrently with each other. Info and Cancel are safe to
// call from any goroutine at any time.
type Handle interface {
	// Next returns the next chunk in the exchange, blocking until one
	// is available or ctx is done. If ctx is done first, Next returns
	// a TimeoutChunk and the sequence is left untouched, so a later
	// call can still receive the chunk.
	Next(ctx context.Context) Chunk

	// Info returns a snapshot of the exchange's timing and response
	// metadata.
	Info() Info

	// Cancel aborts the exchange and releases its transport
	// resources. Cancel is idempotent.
	Cancel()

	// ReadBody consumes the rest of the sequence and returns the body
	// bytes. If checkStatus is true and the response status code is
	// 300 or above, ReadBody returns the body with a *StatusError.
	ReadBody(checkStatus bool) ([]byte, error)
}

// An Issuer starts HTTP exchanges. Issue never blocks on the network:
// failures surface through the returned Handle.
type Issuer interface {
	Issue(p *request.Plan) Handle
}

// Info is a snapshot of an exchange's metadata.
type Info struct {
	// URL is the URL requested.
	URL string

	// Start is the time the exchange was issued.
	Start time.Time

	// ConnectTime is the time between Start and the moment a
	// connection was established. Zero means the exchange has not
	// connected (yet).
	ConnectTime time.Duration

	// Timeouts are the bounds the exchange was issued with.
	Timeouts request.Timeouts

	// StatusCode and Header are zero/nil until the response headers
	// arrive.
	StatusCode int
	Header     http.Header

	// Canceled reports whether Cancel has been called.
	Canceled bool
}

// Connected reports whether the exchange ever established a connection.
func (i Info) Connected() bool {
	return i.ConnectTime > 0
}

func readAll(h Handle, checkStatus bool) ([]byte, error) {
	var buf bytes.Buffer
	for {
		c := h.Next(context.Background())
		switch c.Kind {
		case DataChunk:
			buf.Write(c.Data)
		case FailedChunk:
			return buf.Bytes(), c.Err
		case EndChunk:
			b := buf.Bytes()
			if b == nil {
				b = []byte{}
			}
			if checkStatus {
				info := h.Info()
				if info.StatusCode >= 300 {
					return b, &StatusError{URL: info.URL, StatusCode: info.StatusCode}
				}
			}
			return b, nil
		}
	}
}
