// Package export serializes a record list for the spreadsheet export
// collaborator.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/railcrew/worklog/internal/models"
)

// header columns: date, train, start, end, hours, note.
var header = []string{"日期", "车次", "开始", "结束", "工时", "备注"}

// Csv renders one row per record, in list order, under the fixed header.
// A UTF-8 BOM is prepended so spreadsheet applications decode the CJK
// header correctly.
func Csv(recs []models.WorkRecord) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, r := range recs {
		row := []string{
			r.Date,
			r.Train,
			r.Start,
			r.End,
			strconv.FormatFloat(r.Duration, 'f', -1, 64),
			r.Note,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
