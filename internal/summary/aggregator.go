// =============================================================================
// Attendance Summary - Summary Aggregator
// =============================================================================
//
// This module classifies raw daily status codes and totals them per employee
// over a date range.
//
// CLASSIFICATION TABLE (case-sensitive, exact match):
//
//   | Code                 | Category         | Working-day weight |
//   |----------------------|------------------|--------------------|
//   | W                    | Present          | 1                  |
//   | PL                   | Planned Leave    | 1                  |
//   | UPL                  | Unplanned Leave  | 1                  |
//   | SL                   | Sick Leave       | 1                  |
//   | CL                   | Casual Leave     | 1                  |
//   | Compoff              | Compensatory Off | 1                  |
//   | Halfday              | Half Day         | 0.5                |
//   | Absconded, NCNS      | Absent           | 1                  |
//   | Resigned, Resgined   | Resigned         | 0                  |
//   | OFF                  | Off              | 0                  |
//   | (anything else)      | Unclassified     | not counted        |
//
// The half-day weight applies to the working-day total only; the Half Day
// column still counts occurrences.
//
// =============================================================================

package summary

import (
	"time"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// classification is one row of the status table.
type classification struct {
	category types.Category
	weight   float64
}

// statusTable maps each recognized status code to its category and weight.
// "Resgined" is a misspelling found in the source sheets.
var statusTable = map[string]classification{
	"W":         {types.Present, 1},
	"PL":        {types.PlannedLeave, 1},
	"UPL":       {types.UnplannedLeave, 1},
	"SL":        {types.SickLeave, 1},
	"CL":        {types.CasualLeave, 1},
	"Compoff":   {types.CompensatoryOff, 1},
	"Halfday":   {types.HalfDay, 0.5},
	"Absconded": {types.Absent, 1},
	"NCNS":      {types.Absent, 1},
	"Resigned":  {types.Resigned, 0},
	"Resgined":  {types.Resigned, 0},
	"OFF":       {types.Off, 0},
}

// Classify returns the category of a status code and its working-day
// weight. Unknown codes return Unclassified with weight 0.
func Classify(code string) (types.Category, float64) {
	if c, ok := statusTable[code]; ok {
		return c.category, c.weight
	}
	return types.Unclassified, 0
}

// Summarize computes one SummaryRow per record over [start, end] inclusive.
//
// PARAMETERS:
//   - records: The parsed attendance records.
//   - start, end: The date range; only the calendar date is used. The caller
//     guarantees start <= end.
//
// RETURNS:
//   - One row per record, in input order. Each row depends only on its own
//     record, so summarizing a subset yields the matching subset of rows.
func Summarize(records []types.AttendanceRecord, start, end time.Time) []types.SummaryRow {
	rows := make([]types.SummaryRow, len(records))
	for i, record := range records {
		rows[i] = SummarizeRecord(record, start, end)
	}
	return rows
}

// SummarizeRecord computes the SummaryRow of a single record.
func SummarizeRecord(record types.AttendanceRecord, start, end time.Time) types.SummaryRow {
	row := types.SummaryRow{
		Process:      record.Process,
		EmployeeID:   record.EmployeeID,
		EmployeeName: record.EmployeeName,
		SheetName:    record.SheetName,
	}

	for _, status := range InRange(record, start, end) {
		category, weight := Classify(status)
		if category == types.Unclassified {
			continue
		}
		row.Counts.Increment(category)
		row.TotalWorkingDays += weight
	}

	return row
}

// InRange returns the record's entries whose date lies within [start, end].
// Keys that are not valid ISO dates are dropped.
func InRange(record types.AttendanceRecord, start, end time.Time) map[string]string {
	startKey := start.Format(types.DateLayout)
	endKey := end.Format(types.DateLayout)

	entries := make(map[string]string)
	for key, status := range record.Days {
		if _, err := time.Parse(types.DateLayout, key); err != nil {
			continue
		}
		// ISO keys order chronologically as strings.
		if key < startKey || key > endKey {
			continue
		}
		entries[key] = status
	}
	return entries
}

// DateSpan returns the earliest and latest dates present in the records.
// ok is false when no record holds a valid date.
func DateSpan(records []types.AttendanceRecord) (min, max time.Time, ok bool) {
	for _, record := range records {
		for key := range record.Days {
			d, err := time.Parse(types.DateLayout, key)
			if err != nil {
				continue
			}
			if !ok || d.Before(min) {
				min = d
			}
			if !ok || d.After(max) {
				max = d
			}
			ok = true
		}
	}
	return min, max, ok
}
