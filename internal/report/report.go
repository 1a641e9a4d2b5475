// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package report summarizes a batch of executions.
package report

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/gogama/peekx/request"
)

const (
	minLatency = int64(time.Microsecond)
	maxLatency = int64(time.Hour)
	sigFigs    = 3
)

var classifications = []request.Classification{
	request.Success,
	request.ConnectTimeout,
	request.DurationTimeout,
	request.Errored,
}

// A Summary accumulates execution latencies per classification. It is
// safe for concurrent use.
type Summary struct {
	mu     sync.Mutex
	all    *hdrhistogram.Histogram
	counts map[request.Classification]int
	status map[int]int
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		all:    hdrhistogram.New(minLatency, maxLatency, sigFigs),
		counts: make(map[request.Classification]int),
		status: make(map[int]int),
	}
}

// Record adds an ended execution to the summary.
func (s *Summary) Record(e *request.Execution) {
	d := int64(e.Duration())
	if d < minLatency {
		d = minLatency
	} else if d > maxLatency {
		d = maxLatency
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.all.RecordValue(d)
	s.counts[e.Classification]++
	if e.StatusCode != 0 {
		s.status[e.StatusCode]++
	}
}

// Count returns the number of recorded executions with classification c.
func (s *Summary) Count(c request.Classification) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[c]
}

// Total returns the number of recorded executions.
func (s *Summary) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.TotalCount()
}

// Quantile returns the latency at quantile q, 0 to 100.
func (s *Summary) Quantile(q float64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.all.ValueAtQuantile(q))
}

// WriteTo writes a classification table and a latency summary to w.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', 0)
	total := s.all.TotalCount()
	_, _ = fmt.Fprintln(tw, "CLASSIFICATION\tCOUNT\tPERCENT")
	for _, c := range classifications {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(s.counts[c]) / float64(total)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", c, s.counts[c], pct)
	}
	_ = tw.Flush()

	if total > 0 {
		_, _ = fmt.Fprintf(cw, "\nlatency: min=%s p50=%s p90=%s p99=%s max=%s\n",
			round(s.all.Min()),
			round(s.all.ValueAtQuantile(50)),
			round(s.all.ValueAtQuantile(90)),
			round(s.all.ValueAtQuantile(99)),
			round(s.all.Max()),
		)
	}
	return cw.n, cw.err
}

func round(v int64) time.Duration {
	return time.Duration(v).Round(time.Millisecond)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
