package config

import "time"

// Config holds runtime settings for the sesdash terminal client.
//
// Fields:
//   - BaseURL: origin of the dashboard server (or the backend directly).
//   - StoragePath: SQLite file holding the session.
//   - PollInterval: refresh period of sync status and settings.
//   - WatchInterval: how often the session file is checked for changes made
//     by another process.
type Config struct {
	BaseURL       string
	StoragePath   string
	PollInterval  time.Duration
	WatchInterval time.Duration
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost"
	c.StoragePath = "sesdash.db"
	c.PollInterval = 30 * time.Second
	c.WatchInterval = 2 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
