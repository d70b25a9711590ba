// Package config loads runtime configuration for the campuslink CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. CAMPUSLINK_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "gateway_url": "http://127.0.0.1:8080",
//	  "project_id": "campuslink",
//	  "request_timeout": "10s",
//	  "database_path": "campuslink.db",
//	  "key_file": "campuslink.key",
//	  "log_format": "text",
//	  "log_level": "warn"
//	}
package config
