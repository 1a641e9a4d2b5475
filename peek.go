// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"context"
	"time"
)

// peeked is the Handle returned by Classify. It hands back the chunk
// consumed by the peek before anything else, and classifies timeout
// failures met while the caller reads.
type peeked struct {
	Handle
	classifier *Classifier
	bound      time.Duration
	held       *Chunk
	last       *Chunk
}

func (p *peeked) fail(err error) {
	p.last = &Chunk{Kind: FailedChunk, Err: err}
}

func (p *peeked) Next(ctx context.Context) Chunk {
	if p.last != nil {
		return *p.last
	}

	var c Chunk
	if p.held != nil {
		c, p.held = *p.held, nil
	} else {
		c = p.Handle.Next(ctx)
	}

	switch c.Kind {
	case FailedChunk:
		p.fail(p.classifier.failure(p.Handle, p.bound, c.Err))
		return *p.last
	case EndChunk:
		p.last = &c
	}
	return c
}

func (p *peeked) ReadBody(checkStatus bool) ([]byte, error) {
	return readAll(p, checkStatus)
}
