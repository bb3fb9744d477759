// Package config handles configuration for the worklog CLI, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver: "sqlite" (local file) or "postgres" (shared backend).
//   - DatabaseDSN: driver-specific DSN. Empty means no backing store; the
//     app runs memory-only with a persistent warning.
//   - ExportPath: where the CSV export is written.
//   - PersistTimeout: per-call deadline for backing-store round-trips.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	ExportPath     string
	PersistTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "worklog.db"
	c.ExportPath = "worklog.csv"
	c.PersistTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment (.env supported), and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
