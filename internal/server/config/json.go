package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/flagx"
	"github.com/dmitrijs2005/campuslink/internal/timex"
)

// JsonConfig is the JSON file representation of Config. Durations accept
// both strings such as "720h" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr            string         `json:"endpoint_addr"`
	ProjectID               string         `json:"project_id"`
	Storage                 string         `json:"storage"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	BcryptCost              int            `json:"bcrypt_cost"`
	LogFormat               string         `json:"log_format"`
	LogLevel                string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config, if any, and copies every
// non-empty field into config. A missing file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.ProjectID, c.ProjectID)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.SessionValidityDuration.Duration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
