package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sesdash/internal/flagx"
	"github.com/dmitrijs2005/sesdash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an absent key from an empty value.
type JsonConfig struct {
	BaseURL       *string         `json:"base_url"`
	StoragePath   *string         `json:"storage_path"`
	PollInterval  *timex.Duration `json:"poll_interval"`
	WatchInterval *timex.Duration `json:"watch_interval"`
	LogLevel      *string         `json:"log_level"`
	LogFormat     *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.StoragePath != nil {
		cfg.StoragePath = *jc.StoragePath
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.WatchInterval != nil {
		cfg.WatchInterval = jc.WatchInterval.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
