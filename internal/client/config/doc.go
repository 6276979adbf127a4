// Package config loads runtime configuration for the sesdash client and
// monitor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   dashboard base URL
//	-d string   session storage file
//	-p int      sync status / settings poll interval (seconds)
//	-w int      session storage watch interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds. Absent keys keep the defaults.
//
//	{
//	  "base_url": "http://localhost",
//	  "storage_path": "sesdash.db",
//	  "poll_interval": "30s",
//	  "watch_interval": "2s",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
