package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/timex"
)

func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	now := timex.Now()
	train, deadhead, start, end, err := a.promptShift("", false,
		timex.FormatStamp(now), timex.FormatStamp(now.Add(8*time.Hour)))
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := a.session.AddRecord(opCtx, start, end, train, deadhead)
	if err != nil {
		printShiftError(err)
		return err
	}

	printlnFn(fmt.Sprintf("Added %s %s–%s: %.2f hours", rec.Date, rec.Start, rec.End, rec.Duration))
	a.warnIfUnsynced()
	return nil
}

func (a *App) Edit(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	index, err := a.recordIndex(arg, "Record number to edit")
	if err != nil {
		return err
	}

	rec, err := a.session.BeginEdit(index)
	if err != nil {
		printShiftError(err)
		return err
	}

	train, deadhead, start, end, err := a.promptShift(
		rec.EditTrain(), rec.IsDeadhead(), rec.StartStamp(), rec.EndStamp())
	if err != nil {
		a.session.CancelEdit()
		log.Printf("error: %v", err)
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	saved, err := a.session.SaveEdit(opCtx, start, end, train, deadhead)
	if err != nil {
		// The edit stays open on validation failure; retry or cancel.
		printShiftError(err)
		return err
	}

	printlnFn(fmt.Sprintf("Saved %s %s–%s: %.2f hours", saved.Date, saved.Start, saved.End, saved.Duration))
	a.warnIfUnsynced()
	return nil
}

func (a *App) Cancel(ctx context.Context) error {
	a.session.CancelEdit()
	printlnFn("Edit cancelled")
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	index, err := a.recordIndex(arg, "Record number to delete")
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.session.DeleteRecord(opCtx, index); err != nil {
		printShiftError(err)
		return err
	}

	printlnFn("Record deleted")
	a.warnIfUnsynced()
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	ok, err := GetYesNo(a.reader, "Delete all records?", false, os.Stdout)
	if err != nil || !ok {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.session.ClearRecords(opCtx); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("All records deleted")
	a.warnIfUnsynced()
	return nil
}

// promptShift collects the four shift inputs, with defaults shown for the
// edit-prefill path.
func (a *App) promptShift(defTrain string, defDeadhead bool, defStart, defEnd string) (train string, deadhead bool, start, end time.Time, err error) {
	train, err = GetDefaultedText(a.reader, "Train code (empty for none)", defTrain, os.Stdout)
	if err != nil {
		return
	}
	deadhead, err = GetYesNo(a.reader, "Deadhead passage?", defDeadhead, os.Stdout)
	if err != nil {
		return
	}

	startStr, err := GetDefaultedText(a.reader, "Attendance (YYYY-MM-DD HH:MM)", defStart, os.Stdout)
	if err != nil {
		return
	}
	start, err = parseStampInput(startStr)
	if err != nil {
		return
	}

	endStr, err := GetDefaultedText(a.reader, "Departure (YYYY-MM-DD HH:MM)", defEnd, os.Stdout)
	if err != nil {
		return
	}
	end, err = parseStampInput(endStr)
	return
}

// parseStampInput splits a full stamp into its picked date and picked time
// and reassembles them through the rollover-safe combiner.
func parseStampInput(s string) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrUnparsableTimestamp, s)
	}
	return timex.AssembleParts(parts[0], parts[1])
}

// recordIndex parses the command argument as a record number, prompting
// when it was omitted.
func (a *App) recordIndex(arg, prompt string) (int, error) {
	if arg == "" {
		var err error
		arg, err = GetSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return 0, err
		}
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn("Not a record number:", arg)
		return 0, err
	}
	return index, nil
}

func (a *App) warnIfUnsynced() {
	if a.session.Degraded() {
		printlnFn("Warning: change kept in memory only, backing store unreachable")
	}
}

func printShiftError(err error) {
	switch {
	case errors.Is(err, common.ErrEndNotAfterStart):
		printlnFn("Departure must be later than attendance")
	case errors.Is(err, common.ErrMissingTimestamp):
		printlnFn("Both timestamps are required")
	case errors.Is(err, common.ErrUnparsableTimestamp):
		printlnFn("Timestamps must look like 2024-03-01 08:00")
	case errors.Is(err, common.ErrIndexOutOfBounds):
		printlnFn("No record with that number")
	case errors.Is(err, common.ErrEditInProgress):
		printlnFn("Finish or cancel the open edit first")
	case errors.Is(err, common.ErrNoActiveEdit):
		printlnFn("No edit in progress")
	default:
		log.Printf("error: %v", err)
	}
}
