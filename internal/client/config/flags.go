package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     gateway base URL
//	-p string     project id
//	-t duration   request timeout (e.g. "10s")
//	-db string    local database path
//	-k string     device key file
//	-log string   log format: text | json | zap
//	-v string     log level: debug | info | warn | error
//
// os.Args is filtered with flagx.FilterArgs first to avoid interference with
// other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "p", "t", "db", "k", "log", "v")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayURL, "a", cfg.GatewayURL, "gateway base URL")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "device key file")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format (text|json|zap)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
