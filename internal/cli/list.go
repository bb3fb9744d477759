package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/railcrew/worklog/internal/common"
)

func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return common.ErrNotLoggedIn
	}

	recs := a.session.Records()
	if len(recs) == 0 {
		printlnFn("No records yet")
		return nil
	}

	headers := []string{"#", "Date", "Train", "Start", "End", "Hours", "Note"}
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Date,
			r.Train,
			r.Start,
			r.End,
			fmt.Sprintf("%.2f", r.Duration),
			r.Note,
		})
	}
	footers := []string{"", "", "", "", "Total:", fmt.Sprintf("%.2f", a.session.Total()), ""}

	printRecordTable(headers, rows, footers)
	return nil
}

// printRecordTable renders a fixed-width text table with a footer row.
func printRecordTable(headers []string, rows [][]string, footers []string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	for i, header := range headers {
		fmt.Fprintf(os.Stdout, "%-*s\t", colWidths[i], header)
	}
	fmt.Fprintln(os.Stdout)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(os.Stdout, "%-*s\t", colWidths[i], cell)
		}
		fmt.Fprintln(os.Stdout)
	}

	for i, footer := range footers {
		fmt.Fprintf(os.Stdout, "%-*s\t", colWidths[i], footer)
	}
	fmt.Fprintln(os.Stdout)
}
