// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package demo implements the demonstration server: a slow endpoint
// and one route per configured timeout scenario.
package demo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gogama/peekx"
	"github.com/gogama/peekx/internal/config"
	"github.com/gogama/peekx/internal/logging"
	"github.com/gogama/peekx/request"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

// RequestIDHeader carries the correlation ID of a request.
const RequestIDHeader = "X-Request-ID"

const defaultSleep = 5 * time.Second

// Server serves the demo routes.
type Server struct {
	// Config holds the server settings and the scenarios.
	Config *config.Config
	// Client runs the scenarios.
	Client *peekx.Client
	// Logger logs served requests. If nil, slog.Default is used.
	Logger *slog.Logger
	// Metrics is served on Config.Server.MetricsPath, if both are set.
	Metrics http.Handler
	// BaseURL is prefixed to scenario targets which are paths, so they
	// can point back at this server.
	BaseURL string
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sleep", s.sleep)
	mux.HandleFunc("GET /test/{name}", s.scenario)
	if s.Metrics != nil && s.Config.Server.MetricsPath != "" {
		mux.Handle("GET "+s.Config.Server.MetricsPath, s.Metrics)
	}

	h := s.requestID(mux)
	if s.Config.Server.CORS {
		h = cors.New(cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
			ExposedHeaders: []string{RequestIDHeader},
		}).Handler(h)
	}
	return h
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// requestID tags every request with a correlation ID, reusing the
// caller's if it sent one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(logging.WithID(r.Context(), id)))
		s.logger().Debug("served",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

// sleep waits for the duration in the d query parameter (default 5s)
// before sending anything, headers included.
func (s *Server) sleep(w http.ResponseWriter, r *http.Request) {
	d := defaultSleep
	if v := r.URL.Query().Get("d"); v != "" {
		var err error
		if d, err = time.ParseDuration(v); err != nil || d < 0 {
			http.Error(w, fmt.Sprintf("bad duration %q", v), http.StatusBadRequest)
			return
		}
	}
	if max := s.Config.Server.MaxSleep; max > 0 && d > max {
		http.Error(w, fmt.Sprintf("duration %s exceeds %s", d, max), http.StatusBadRequest)
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.Context().Done():
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "slept %s\n", d)
}

// scenario runs a configured scenario and renders its outcome. Timeouts
// of either kind answer 408, other failures 502.
func (s *Server) scenario(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.Config.Scenario(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	target := sc.Target
	if strings.HasPrefix(target, "/") {
		target = strings.TrimSuffix(s.BaseURL, "/") + target
	}
	p, err := request.NewPlanWithContext(r.Context(), sc.Method, target, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	p = p.WithTimeouts(request.Timeouts{Connect: sc.Connect, Max: sc.Max})

	var o outcome
	if sc.Mode == config.ModeStream {
		o = s.stream(r.Context(), p)
	} else {
		o = s.read(p)
	}
	o.render(w, fmt.Sprintf("%T", s.Client.HTTPDoer), sc)
}

type outcome struct {
	start          time.Time
	classification request.Classification
	status         int
	bytes          int
	err            error
}

func (s *Server) read(p *request.Plan) outcome {
	e, err := s.Client.Do(p)
	return outcome{
		start:          e.Start,
		classification: e.Classification,
		status:         e.StatusCode,
		bytes:          len(e.Body),
		err:            err,
	}
}

// stream classifies the exchange before touching the body, then walks
// its chunks.
func (s *Server) stream(ctx context.Context, p *request.Plan) outcome {
	h := s.Client.Issue(p)
	defer h.Cancel()
	o := outcome{start: h.Info().Start}

	classifier := s.Client.Classifier
	if classifier == nil {
		classifier = peekx.DefaultClassifier
	}
	h, o.err = classifier.Classify(h, p.Timeouts.Connect)
	for o.err == nil {
		c := h.Next(ctx)
		o.bytes += len(c.Data)
		if c.Kind == peekx.FailedChunk {
			o.err = c.Err
		} else if c.Kind == peekx.EndChunk || c.Kind == peekx.TimeoutChunk {
			break
		}
	}

	o.classification = peekx.ClassificationOf(o.err)
	o.status = h.Info().StatusCode
	return o
}

func (o *outcome) render(w http.ResponseWriter, client string, sc config.Scenario) {
	code := http.StatusOK
	switch o.classification {
	case request.ConnectTimeout, request.DurationTimeout:
		code = http.StatusRequestTimeout
	case request.Errored:
		code = http.StatusBadGateway
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "Client: %s\n", client)
	fmt.Fprintf(&b, "Scenario: %s (%s)\n", sc.Name, request.Timeouts{Connect: sc.Connect, Max: sc.Max})
	fmt.Fprintf(&b, "Duration: %d ms\n", time.Since(o.start).Milliseconds())
	fmt.Fprintf(&b, "Classification: %s\n", o.classification)
	if o.status != 0 {
		fmt.Fprintf(&b, "Status: %d\n", o.status)
	}
	fmt.Fprintf(&b, "Bytes: %d\n", o.bytes)
	if o.err != nil {
		fmt.Fprintf(&b, "Error: %T: %v\n", o.err, o.err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(b.Bytes())
}
