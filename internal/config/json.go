package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/railcrew/worklog/internal/flagx"
	"github.com/railcrew/worklog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDriver string         `json:"database_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	ExportPath     string         `json:"export_path"`
	PersistTimeout timex.Duration `json:"persist_timeout"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named, nothing happens. Only fields
// present in the file override defaults.
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

	if jc.DatabaseDriver != "" {
		cfg.DatabaseDriver = jc.DatabaseDriver
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.ExportPath != "" {
		cfg.ExportPath = jc.ExportPath
	}
	if jc.PersistTimeout.Duration != 0 {
		cfg.PersistTimeout = time.Duration(jc.PersistTimeout.Duration)
	}
}
