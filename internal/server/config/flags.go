package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string     REST bind address (e.g. ":8080")
//	-p string     project id
//	-storage str  storage backend: memory | postgres
//	-d string     PostgreSQL DSN
//	-s string     session secret signing key
//	-t duration   session validity (e.g. "720h")
//	-log string   log format: text | json | zap
//
// os.Args is filtered with flagx.FilterArgs first so flags of other
// components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "p", "storage", "d", "s", "t", "log")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.ProjectID, "p", config.ProjectID, "project id")
	fs.StringVar(&config.Storage, "storage", config.Storage, "storage backend (memory|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity")
	fs.StringVar(&config.LogFormat, "log", config.LogFormat, "log format (text|json|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
