// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server    Server     `yaml:"server"`
	Client    Client     `yaml:"client"`
	Scenarios []Scenario `yaml:"scenarios"`
	Probe     Probe      `yaml:"probe"`
	Log       Log        `yaml:"log"`
}

// Server configures the demo server.
type Server struct {
	Address         string        `yaml:"address"`
	MetricsPath     string        `yaml:"metrics_path"`
	CORS            bool          `yaml:"cors"`
	MaxSleep        time.Duration `yaml:"max_sleep"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Protocol selects the HTTP transport used by outgoing requests.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTP2 Protocol = "http2"
)

// Client configures outgoing requests.
type Client struct {
	Protocol                Protocol      `yaml:"protocol"`
	TLSInsecure             bool          `yaml:"tls_insecure"`
	MaxIdleConns            int           `yaml:"max_idle_conns"`
	IdleConnTimeout         time.Duration `yaml:"idle_conn_timeout"`
	CancelOnDurationTimeout bool          `yaml:"cancel_on_duration_timeout"`
}

// Mode selects how a scenario consumes the response.
type Mode string

const (
	// ModeRead lets the client read the whole body.
	ModeRead Mode = "read"
	// ModeStream issues and classifies the exchange, then walks its
	// chunks.
	ModeStream Mode = "stream"
)

// Scenario is one /test/<name> route on the demo server.
type Scenario struct {
	Name    string        `yaml:"name"`
	Target  string        `yaml:"target"` // Absolute, or a path on the demo server itself
	Method  string        `yaml:"method"`
	Connect time.Duration `yaml:"connect"`
	Max     time.Duration `yaml:"max"`
	Mode    Mode          `yaml:"mode"`
}

// Probe configures the probe command.
type Probe struct {
	Connect time.Duration `yaml:"connect"`
	Max     time.Duration `yaml:"max"`
	Count   int           `yaml:"count"`
	Rate    float64       `yaml:"rate"` // Requests per second, 0 = unpaced
	Workers int           `yaml:"workers"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`         // text or json
	File   string `yaml:"file,omitempty"` // Rotated; stderr if empty
	MaxMB  int    `yaml:"max_mb"`
}

// DefaultConfig returns a configuration with sensible defaults. Its
// scenarios reproduce the three classic cases: an unreachable host, a
// response slower than the max duration, and a response slower than the
// connect bound but within the max duration.
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Address:         ":8000",
			MetricsPath:     "/metrics",
			MaxSleep:        time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Client: Client{
			Protocol:        ProtocolHTTP,
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
		Scenarios: []Scenario{
			{
				Name:    "timeout",
				Target:  "http://192.0.2.1", // TEST-NET-1, never answers
				Connect: 3 * time.Second,
				Max:     5 * time.Second,
			},
			{
				Name:    "max-duration",
				Target:  "/sleep?d=5s",
				Connect: 3 * time.Second,
				Max:     4 * time.Second,
			},
			{
				Name:    "slow-response",
				Target:  "/sleep?d=5s",
				Connect: 3 * time.Second,
				Max:     10 * time.Second,
			},
			{
				Name:    "stream",
				Target:  "/sleep?d=5s",
				Connect: 3 * time.Second,
				Max:     10 * time.Second,
				Mode:    ModeStream,
			},
		},
		Probe: Probe{
			Connect: 3 * time.Second,
			Max:     10 * time.Second,
			Count:   1,
			Workers: 1,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			MaxMB:  100,
		},
	}
}

// Scenario returns the scenario with the given name.
func (c *Config) Scenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
