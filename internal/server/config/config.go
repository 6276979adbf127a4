// Package config handles configuration for the static proxy server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the dashboard server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP server; PORT sets ":<port>".
//   - BackendURL: origin that /api, /sns and /swagger are forwarded to.
//   - StaticDir: directory of the built single-page application.
//   - BreakerFailures: consecutive forwarding failures that open the breaker.
//   - BreakerTimeout: how long an open breaker rejects requests before probing.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	ListenAddr      string
	BackendURL      string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	BreakerFailures int
	BreakerTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with the production defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":80"
	c.BackendURL = "http://backend:8080"
	c.StaticDir = "dist"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.BreakerFailures = 5
	c.BreakerTimeout = 30 * time.Second
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
