// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about classified
// executions.
package metrics

import (
	"net/http"

	"github.com/gogama/peekx"
	"github.com/gogama/peekx/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "peekx"

// Metrics holds the Prometheus metrics for executions. It implements
// peekx.Handler; install it with peekx.HandlerGroup.PushBackAll.
type Metrics struct {
	registry *prometheus.Registry

	ExecutionsTotal    *prometheus.CounterVec
	ExecutionDuration  *prometheus.HistogramVec
	ConnectTime        prometheus.Histogram
	ExecutionsInFlight prometheus.Gauge
}

// New creates the metrics and registers them, together with the Go and
// process collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of executions by host and classification",
			},
			[]string{"host", "classification"},
		),
		ExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Execution latency by classification",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~33s
			},
			[]string{"classification"},
		),
		ConnectTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "connect_time_seconds",
				Help:      "Time to establish a connection, for executions which connected",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
		),
		ExecutionsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "executions_in_flight",
				Help:      "Current number of executions in progress",
			},
		),
	}
	m.registry.MustRegister(
		m.ExecutionsTotal,
		m.ExecutionDuration,
		m.ConnectTime,
		m.ExecutionsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handle updates the metrics for an execution event.
func (m *Metrics) Handle(evt peekx.Event, e *request.Execution) {
	switch evt {
	case peekx.BeforeExecutionStart:
		m.ExecutionsInFlight.Inc()
	case peekx.AfterExecutionEnd:
		m.ExecutionsInFlight.Dec()
		c := e.Classification.String()
		m.ExecutionsTotal.WithLabelValues(e.Plan.URL.Host, c).Inc()
		m.ExecutionDuration.WithLabelValues(c).Observe(e.Duration().Seconds())
		if e.Connected() {
			m.ConnectTime.Observe(e.ConnectTime.Seconds())
		}
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler serves the metrics in the Prometheus exposition format.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
