// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging builds the command-line logger and the event handler
// which logs classified executions.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogama/peekx"
	"github.com/gogama/peekx/internal/config"
	"github.com/gogama/peekx/request"
	"gopkg.in/natefinch/lumberjack.v2"
)

type idKey struct{}

// WithID returns a copy of ctx carrying a correlation ID. Handler logs
// the ID of any execution whose plan context carries one.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// ID returns the correlation ID carried by ctx, if any.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok
}

// New builds a logger from cfg. If cfg.File is set, output goes to a
// rotated file instead of w.
func New(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if cfg.File != "" {
		w = &lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  cfg.MaxMB,
		}
	} else if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Handler logs executions to a slog.Logger. Install it into every
// event chain with peekx.HandlerGroup.PushBackAll.
type Handler struct {
	Logger *slog.Logger
}

// Handle logs e at a level depending on evt.
func (h *Handler) Handle(evt peekx.Event, e *request.Execution) {
	switch evt {
	case peekx.BeforeIssue:
		h.Logger.Debug("issuing request", attrs(e)...)
	case peekx.AfterClassify:
		h.Logger.Debug("classified", append(attrs(e),
			slog.String("classification", e.Classification.String()),
			slog.Bool("connected", e.Connected()),
		)...)
	case peekx.AfterConnectTimeout:
		h.Logger.Warn("connect timeout", append(attrs(e),
			slog.Duration("connect", e.Timeouts.Connect),
			slog.Any("error", e.Err),
		)...)
	case peekx.AfterDurationTimeout:
		h.Logger.Warn("duration timeout", append(attrs(e),
			slog.Duration("max", e.Timeouts.Max),
			slog.Duration("connect_time", e.ConnectTime),
			slog.Any("error", e.Err),
		)...)
	case peekx.AfterExecutionEnd:
		args := append(attrs(e),
			slog.String("classification", e.Classification.String()),
			slog.Int("status", e.StatusCode),
			slog.Int64("duration_ms", e.Duration().Milliseconds()),
			slog.Int("bytes", len(e.Body)),
		)
		if e.Classification == request.Errored {
			h.Logger.Error("request failed", append(args, slog.Any("error", e.Err))...)
		} else {
			h.Logger.Info("request complete", args...)
		}
	}
}

func attrs(e *request.Execution) []any {
	a := []any{
		slog.String("method", e.Plan.Method),
		slog.String("url", e.Plan.URL.String()),
	}
	if id, ok := ID(e.Plan.Context()); ok {
		a = append(a, slog.String("id", id))
	}
	return a
}
