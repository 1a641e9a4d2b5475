// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML configuration file. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse unmarshals YAML over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// validate checks the configuration for errors and fills in per-item
// defaults.
func validate(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.Server.MetricsPath != "" && !strings.HasPrefix(cfg.Server.MetricsPath, "/") {
		return fmt.Errorf("server.metrics_path must start with /")
	}

	switch cfg.Client.Protocol {
	case "":
		cfg.Client.Protocol = ProtocolHTTP
	case ProtocolHTTP, ProtocolHTTP2:
	default:
		return fmt.Errorf("client.protocol: unknown protocol %q", cfg.Client.Protocol)
	}

	seen := make(map[string]bool, len(cfg.Scenarios))
	for i, s := range cfg.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenarios[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("scenarios[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.Target == "" {
			return fmt.Errorf("scenarios[%d]: target is required", i)
		}
		if s.Connect < 0 || s.Max < 0 {
			return fmt.Errorf("scenarios[%d]: timeouts must not be negative", i)
		}
		if s.Method == "" {
			cfg.Scenarios[i].Method = "GET"
		}
		switch s.Mode {
		case "":
			cfg.Scenarios[i].Mode = ModeRead
		case ModeRead, ModeStream:
		default:
			return fmt.Errorf("scenarios[%d]: unknown mode %q", i, s.Mode)
		}
	}

	if cfg.Probe.Connect < 0 || cfg.Probe.Max < 0 {
		return fmt.Errorf("probe timeouts must not be negative")
	}
	if cfg.Probe.Count <= 0 {
		return fmt.Errorf("probe.count must be positive")
	}
	if cfg.Probe.Rate < 0 {
		return fmt.Errorf("probe.rate must not be negative")
	}
	if cfg.Probe.Workers <= 0 {
		cfg.Probe.Workers = 1
	}

	switch cfg.Log.Format {
	case "":
		cfg.Log.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}

	return nil
}
