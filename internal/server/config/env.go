package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays CAMPUSLINK_SERVER_* variables. Unset variables leave the
// current values alone. Malformed values panic, like a bad JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
