// =============================================================================
// Attendance Summary - CSV Report Module
// =============================================================================
//
// This module writes summary tables as delimited text and reads them back.
//
// COLUMNS:
//   Process, EMP ID, Emp Name, Sheet, <one column per counted category>,
//   Total Working Days
//
//   The combined report replaces Sheet with Contributing Sheets, the sheet
//   names joined with ", ".
//
// Fields holding the delimiter, a quote or a line break are quoted, so a
// written report always reads back to the same rows.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/csvparser"
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// Column headers shared by both reports.
const (
	ColumnProcess            = "Process"
	ColumnEmployeeID         = "EMP ID"
	ColumnEmployeeName       = "Emp Name"
	ColumnSheet              = "Sheet"
	ColumnContributingSheets = "Contributing Sheets"
	ColumnTotalWorkingDays   = "Total Working Days"
)

// SheetSeparator joins contributing sheet names.
const SheetSeparator = ", "

// SummaryHeaders returns the column headers of the per-sheet report.
func SummaryHeaders() []string {
	return headers(ColumnSheet)
}

// CombinedHeaders returns the column headers of the combined report.
func CombinedHeaders() []string {
	return headers(ColumnContributingSheets)
}

func headers(sheetColumn string) []string {
	h := []string{ColumnProcess, ColumnEmployeeID, ColumnEmployeeName, sheetColumn}
	for _, c := range types.CountedCategories {
		h = append(h, c.String())
	}
	return append(h, ColumnTotalWorkingDays)
}

// =============================================================================
// WRITING
// =============================================================================

// WriteSummaryCSV writes rows as a delimited table to w.
func WriteSummaryCSV(w io.Writer, rows []types.SummaryRow, settings config.CSVSettings) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, SummaryHeaders())
	for _, row := range rows {
		records = append(records, SummaryRecord(row))
	}
	return writeAll(w, records, settings)
}

// WriteCombinedCSV writes combined rows as a delimited table to w.
func WriteCombinedCSV(w io.Writer, rows []types.CombinedSummaryRow, settings config.CSVSettings) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, CombinedHeaders())
	for _, row := range rows {
		records = append(records, CombinedRecord(row))
	}
	return writeAll(w, records, settings)
}

// SaveSummaryCSV writes the per-sheet report to path.
func SaveSummaryCSV(path string, rows []types.SummaryRow, settings config.CSVSettings) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteSummaryCSV(w, rows, settings)
	})
}

// SaveCombinedCSV writes the combined report to path.
func SaveCombinedCSV(path string, rows []types.CombinedSummaryRow, settings config.CSVSettings) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteCombinedCSV(w, rows, settings)
	})
}

// SummaryRecord returns the report fields of one row.
func SummaryRecord(row types.SummaryRow) []string {
	return record(row.Process, row.EmployeeID, row.EmployeeName, row.SheetName, row.Counts, row.TotalWorkingDays)
}

// CombinedRecord returns the report fields of one combined row.
func CombinedRecord(row types.CombinedSummaryRow) []string {
	return record(row.Process, row.EmployeeID, row.EmployeeName, row.SheetsDisplay(), row.Counts, row.TotalWorkingDays)
}

// lineBreaks maps CRLF and lone CR to LF. A CSV reader turns a quoted CRLF
// into LF, so text fields are written in that form to read back unchanged.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func record(process, id, name, sheet string, counts types.CategoryCounts, total float64) []string {
	fields := []string{
		lineBreaks.Replace(process),
		lineBreaks.Replace(id),
		lineBreaks.Replace(name),
		lineBreaks.Replace(sheet),
	}
	for _, c := range types.CountedCategories {
		fields = append(fields, strconv.Itoa(counts.Get(c)))
	}
	return append(fields, FormatDays(total))
}

// FormatDays renders a day total without trailing zeros ("12", "12.5").
func FormatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeAll(w io.Writer, records [][]string, settings config.CSVSettings) error {
	writer := csv.NewWriter(w)
	writer.Comma = csvparser.Delimiter(settings.Delimiter)

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func saveFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

// =============================================================================
// READING
// =============================================================================

// ReadSummaryCSV parses a per-sheet report written by WriteSummaryCSV.
func ReadSummaryCSV(r io.Reader, settings config.CSVSettings) ([]types.SummaryRow, error) {
	data, err := csvparser.ParseReader(r, settings)
	if err != nil {
		return nil, err
	}
	if err := data.RequireHeaders(SummaryHeaders()...); err != nil {
		return nil, fmt.Errorf("not a summary report: %w", err)
	}

	rows := make([]types.SummaryRow, 0, data.RowCount)
	for i, fields := range data.Rows {
		counts, total, err := parseCounts(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, types.SummaryRow{
			Process:          fields[ColumnProcess],
			EmployeeID:       fields[ColumnEmployeeID],
			EmployeeName:     fields[ColumnEmployeeName],
			SheetName:        fields[ColumnSheet],
			Counts:           counts,
			TotalWorkingDays: total,
		})
	}

	return rows, nil
}

// ReadCombinedCSV parses a combined report written by WriteCombinedCSV.
func ReadCombinedCSV(r io.Reader, settings config.CSVSettings) ([]types.CombinedSummaryRow, error) {
	data, err := csvparser.ParseReader(r, settings)
	if err != nil {
		return nil, err
	}
	if err := data.RequireHeaders(CombinedHeaders()...); err != nil {
		return nil, fmt.Errorf("not a combined report: %w", err)
	}

	rows := make([]types.CombinedSummaryRow, 0, data.RowCount)
	for i, fields := range data.Rows {
		counts, total, err := parseCounts(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		var sheets []string
		if s := fields[ColumnContributingSheets]; s != "" {
			sheets = strings.Split(s, SheetSeparator)
		}

		rows = append(rows, types.CombinedSummaryRow{
			Process:            fields[ColumnProcess],
			EmployeeID:         fields[ColumnEmployeeID],
			EmployeeName:       fields[ColumnEmployeeName],
			ContributingSheets: sheets,
			Counts:             counts,
			TotalWorkingDays:   total,
		})
	}

	return rows, nil
}

func parseCounts(fields map[string]string) (types.CategoryCounts, float64, error) {
	var counts types.CategoryCounts
	for _, c := range types.CountedCategories {
		n, err := strconv.Atoi(strings.TrimSpace(fields[c.String()]))
		if err != nil {
			return counts, 0, fmt.Errorf("invalid %s count %q", c, fields[c.String()])
		}
		counts.Set(c, n)
	}

	total, err := strconv.ParseFloat(strings.TrimSpace(fields[ColumnTotalWorkingDays]), 64)
	if err != nil {
		return counts, 0, fmt.Errorf("invalid %s %q", ColumnTotalWorkingDays, fields[ColumnTotalWorkingDays])
	}

	return counts, total, nil
}
