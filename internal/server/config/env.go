package config

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/sesdash/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvPort            = "PORT"
	EnvBackendURL      = "BACKEND_URL"
	EnvStaticDir       = "STATIC_DIR"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvBreakerFailures = "BREAKER_FAILURES"
	EnvBreakerTimeout  = "BREAKER_TIMEOUT"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present; variables already set in
// the process environment win over it. Malformed numbers panic, like bad
// flags do.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Errorf("load .env: %w", err))
	}

	if port, ok := os.LookupEnv(EnvPort); ok && port != "" {
		cfg.ListenAddr = ":" + port
	}
	flagx.EnvString(&cfg.BackendURL, EnvBackendURL)
	flagx.EnvString(&cfg.StaticDir, EnvStaticDir)
	flagx.EnvString(&cfg.LogLevel, EnvLogLevel)
	flagx.EnvString(&cfg.LogFormat, EnvLogFormat)

	if !flagx.EnvInt(&cfg.BreakerFailures, EnvBreakerFailures) {
		panic(fmt.Errorf("%s must be an integer", EnvBreakerFailures))
	}
	if !flagx.EnvDuration(&cfg.BreakerTimeout, EnvBreakerTimeout) {
		panic(fmt.Errorf("%s must be a duration", EnvBreakerTimeout))
	}
}
