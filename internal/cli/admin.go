package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/railcrew/worklog/internal/common"
)

func (a *App) Users(ctx context.Context) error {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	summaries, err := a.session.ListDirectory(opCtx)
	if err != nil {
		printAdminError(err)
		return err
	}

	if len(summaries) == 0 {
		printlnFn("No registered workers")
		return nil
	}
	for _, s := range summaries {
		printlnFn(fmt.Sprintf("%s\t%s\t%s", s.ID, s.Name, s.Workshop))
	}
	return nil
}

func (a *App) View(ctx context.Context, arg string) error {
	if arg == "" {
		var err error
		arg, err = GetSimpleText(a.reader, "Worker id to view", os.Stdout)
		if err != nil {
			return err
		}
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.session.SelectTarget(opCtx, arg); err != nil {
		printAdminError(err)
		return err
	}

	printlnFn("Now viewing records of", arg)
	return a.List(ctx)
}

func printAdminError(err error) {
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		printlnFn("Admin role required")
	case errors.Is(err, common.ErrNotLoggedIn):
		printlnFn("Please login first")
	case errors.Is(err, common.ErrSyncUnavailable):
		printlnFn("Backing store unreachable")
	default:
		log.Printf("error: %v", err)
	}
}
