// Package timex holds the canonical timestamp layouts, the fixed business
// clock, and the date/time assembly rule used by every record entry path.
package timex

import (
	"fmt"
	"time"

	"github.com/railcrew/worklog/internal/common"
)

// Canonical textual layouts. StampLayout is the wire contract between the
// input layer and the duration policy; date and clock components of a stored
// record use the split layouts.
const (
	StampLayout = "2006-01-02 15:04"
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Beijing is the fixed UTC+8 business zone. Shift timestamps are always
// interpreted in this zone regardless of the host timezone.
var Beijing = time.FixedZone("UTC+8", 8*60*60)

// Now returns the current time on the business clock.
func Now() time.Time {
	return time.Now().In(Beijing)
}

// Assemble combines a picked calendar date (reported at midnight) with a
// picked wall-clock time into one local timestamp.
//
// The picked date is shifted forward 12 hours first, anchoring it to local
// noon, so that any downstream zone conversion within ±12h cannot roll the
// calendar day. Only the anchor's calendar-day component survives; its hour
// is discarded in favor of the picked time.
func Assemble(pickedDate, pickedTime time.Time) time.Time {
	anchored := pickedDate.Add(12 * time.Hour)
	y, m, d := anchored.Date()
	return time.Date(y, m, d, pickedTime.Hour(), pickedTime.Minute(), 0, 0, anchored.Location())
}

// AssembleParts parses a date string and a clock string separately and runs
// them through Assemble, mirroring the two-step date/time picker flow.
func AssembleParts(dateStr, clockStr string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, dateStr, Beijing)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrUnparsableTimestamp, dateStr)
	}
	c, err := time.ParseInLocation(ClockLayout, clockStr, Beijing)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrUnparsableTimestamp, clockStr)
	}
	return Assemble(d, c), nil
}

// FormatStamp renders t using the canonical wire layout.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ParseStamp parses the canonical "YYYY-MM-DD HH:MM" wire format in the
// business zone.
func ParseStamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(StampLayout, s, Beijing)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrUnparsableTimestamp, s)
	}
	return t, nil
}
