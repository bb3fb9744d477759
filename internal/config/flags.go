package config

import (
	"flag"
	"os"
	"time"

	"github.com/railcrew/worklog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database driver: sqlite, postgres or none
//	-n string   database DSN
//	-e string   CSV export path
//	-t int      persist timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-e", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite, postgres, none)")
	fs.StringVar(&cfg.DatabaseDSN, "n", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.ExportPath, "e", cfg.ExportPath, "CSV export path")
	persistTimeout := fs.Int("t", int(cfg.PersistTimeout.Seconds()), "persist timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PersistTimeout = time.Duration(*persistTimeout) * time.Second
}
