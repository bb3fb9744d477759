// Package policy computes payable work-hours from a validated shift tuple.
package policy

import (
	"math"
	"strings"
	"time"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/models"
	"github.com/railcrew/worklog/internal/timex"
)

// bonusHours is added to every shift that is neither a deadhead passage nor
// a C-prefixed train.
const bonusHours = 0.5

// Bonus returns the fixed bonus for the given train code and deadhead flag.
// The C-prefix test is case-insensitive.
func Bonus(trainCode string, isDeadhead bool) float64 {
	if isDeadhead || strings.HasPrefix(strings.ToUpper(trainCode), "C") {
		return 0
	}
	return bonusHours
}

// Compute returns payable hours for the shift: raw hours at full float
// precision plus the bonus, rounded to two decimals.
//
// Fails with common.ErrMissingTimestamp when either input is absent and
// with common.ErrEndNotAfterStart when end <= start (strict).
func Compute(start, end time.Time, trainCode string, isDeadhead bool) (float64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, common.ErrMissingTimestamp
	}
	if !end.After(start) {
		return 0, common.ErrEndNotAfterStart
	}
	raw := end.Sub(start).Seconds() / 3600
	return round2(raw + Bonus(trainCode, isDeadhead)), nil
}

// round2 rounds half away from zero to two decimals. The rounding rule is
// pinned by tests; see DESIGN.md.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// BuildRecord validates the shift and assembles a storable WorkRecord:
// the train code is normalized to uppercase, an empty code is replaced by
// the storage sentinel, and the classification note is derived from the
// bonus. Multi-day shifts are out of scope, so the record's calendar date
// comes from the start timestamp.
func BuildRecord(start, end time.Time, trainCode string, isDeadhead bool) (models.WorkRecord, error) {
	code := strings.ToUpper(strings.TrimSpace(trainCode))

	duration, err := Compute(start, end, code, isDeadhead)
	if err != nil {
		return models.WorkRecord{}, err
	}

	note := models.ClassStandard
	if Bonus(code, isDeadhead) == 0 {
		note = models.ClassDeadhead
	}
	if code == "" {
		code = models.NoTrainCode
	}

	return models.WorkRecord{
		Date:     start.Format(timex.DateLayout),
		Train:    code,
		Start:    start.Format(timex.ClockLayout),
		End:      end.Format(timex.ClockLayout),
		Duration: duration,
		Note:     note,
	}, nil
}
