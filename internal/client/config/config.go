package config

import "time"

// Config holds runtime settings for the campuslink CLI.
//
// Fields:
//   - GatewayURL: base URL of the Credential Gateway REST API.
//   - ProjectID: sent as X-Project-ID on every gateway request.
//   - RequestTimeout: per-request timeout of gateway calls.
//   - DatabasePath: local SQLite database holding the durable flag and session secret.
//   - KeyFile: per-install device secret used to seal local values.
//   - LogFormat / LogLevel: see logging.New; logs go to stderr.
type Config struct {
	GatewayURL     string        `env:"CAMPUSLINK_GATEWAY_URL"`
	ProjectID      string        `env:"CAMPUSLINK_PROJECT_ID"`
	RequestTimeout time.Duration `env:"CAMPUSLINK_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"CAMPUSLINK_DB_PATH"`
	KeyFile        string        `env:"CAMPUSLINK_KEY_FILE"`
	LogFormat      string        `env:"CAMPUSLINK_LOG_FORMAT"`
	LogLevel       string        `env:"CAMPUSLINK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayURL = "http://127.0.0.1:8080"
	c.ProjectID = "campuslink"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "campuslink.db"
	c.KeyFile = "campuslink.key"
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
