package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sesdash/internal/flagx"
	"github.com/dmitrijs2005/sesdash/internal/timex"
)

// JsonConfig is the JSON form of Config. Interval fields use timex.Duration,
// which accepts both strings such as "30s" and integer nanoseconds. Absent
// keys leave the current value alone.
type JsonConfig struct {
	ListenAddr      *string         `json:"listen_addr"`
	BackendURL      *string         `json:"backend_url"`
	StaticDir       *string         `json:"static_dir"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
	BreakerFailures *int            `json:"breaker_failures"`
	BreakerTimeout  *timex.Duration `json:"breaker_timeout"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. If the file cannot be read or contains invalid JSON, the function
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != nil {
		config.ListenAddr = *c.ListenAddr
	}
	if c.BackendURL != nil {
		config.BackendURL = *c.BackendURL
	}
	if c.StaticDir != nil {
		config.StaticDir = *c.StaticDir
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.LogFormat != nil {
		config.LogFormat = *c.LogFormat
	}
	if c.BreakerFailures != nil {
		config.BreakerFailures = *c.BreakerFailures
	}
	if c.BreakerTimeout != nil {
		config.BreakerTimeout = c.BreakerTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
