// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogama/peekx"
	"github.com/gogama/peekx/internal/config"
	"github.com/gogama/peekx/internal/logging"
	"github.com/gogama/peekx/internal/protocol"
	"github.com/gogama/peekx/timeout"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newClient wires a peekx.Client to the configured transport, logging
// every execution event. Extra handlers see every event too.
func newClient(cfg *config.Config, policy timeout.Policy, logw io.Writer, extra ...peekx.Handler) (*peekx.Client, *slog.Logger, error) {
	logger, err := logging.New(cfg.Log, logw)
	if err != nil {
		return nil, nil, err
	}

	httpClient, err := protocol.NewClient(cfg.Client)
	if err != nil {
		return nil, nil, err
	}

	handlers := &peekx.HandlerGroup{}
	handlers.PushBackAll(&logging.Handler{Logger: logger})
	for _, h := range extra {
		handlers.PushBackAll(h)
	}

	return &peekx.Client{
		HTTPDoer:      httpClient,
		TimeoutPolicy: policy,
		Classifier:    &peekx.Classifier{CancelOnDurationTimeout: cfg.Client.CancelOnDurationTimeout},
		Handlers:      handlers,
	}, logger, nil
}
