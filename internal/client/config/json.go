package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/flagx"
	"github.com/dmitrijs2005/campuslink/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	GatewayURL     string         `json:"gateway_url"`
	ProjectID      string         `json:"project_id"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	KeyFile        string         `json:"key_file"`
	LogFormat      string         `json:"log_format"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the non-empty values of the file named by -c
// or -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
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

	overlay(&cfg.GatewayURL, jc.GatewayURL)
	overlay(&cfg.ProjectID, jc.ProjectID)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.KeyFile, jc.KeyFile)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
