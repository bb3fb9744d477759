package cli

import (
	"context"
	"log"
	"os"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/export"
)

func (a *App) Export(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	recs := a.session.Records()
	if len(recs) == 0 {
		printlnFn("No records to export")
		return nil
	}

	text, err := export.Csv(recs)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := os.WriteFile(a.config.ExportPath, []byte(text), 0o644); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Exported", len(recs), "records to", a.config.ExportPath)
	return nil
}
