package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a local .env
// file first when one exists. Setting WORKLOG_DB_DSN to the empty string
// explicitly is indistinguishable from leaving it unset; use
// WORKLOG_DB_DRIVER=none to force memory-only mode.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("WORKLOG_DB_DRIVER"); v != "" {
		cfg.DatabaseDriver = v
	}
	if v := os.Getenv("WORKLOG_DB_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("WORKLOG_EXPORT_PATH"); v != "" {
		cfg.ExportPath = v
	}
}
