// =============================================================================
// Attendance Summary - Sheet Parser
// =============================================================================
//
// This module turns one loosely-structured attendance sheet into normalized
// per-employee records. The sheets have no fixed schema across months, so the
// parser finds its way around with heuristics:
//
// PARSING PIPELINE:
//   1. Header-row detection: the first row (within the lookahead window)
//      holding enough date-like cells.
//   2. Date column extraction: every header cell at or beyond the identity
//      columns that resolves to a calendar date.
//   3. Employee-region start: the row after the header, skipping a repeated
//      "Emp Name" sub-header when one is present.
//   4. Record extraction: one record per named row that has at least one
//      attendance entry.
//
// ERROR HANDLING:
//   Parsing never fails. A sheet without usable structure yields no records
//   and an Outcome whose Status says why. Malformed cells are skipped.
//
// =============================================================================

package sheetparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// =============================================================================
// OUTCOME
// =============================================================================

// Status describes how far parsing of a sheet got.
type Status int

const (
	// StatusParsed means at least one record was extracted.
	StatusParsed Status = iota

	// StatusNoHeaderRow means no row in the lookahead window looked like a
	// date header.
	StatusNoHeaderRow

	// StatusNoDateColumns means a header row was found but none of its
	// cells resolved to a date.
	StatusNoDateColumns

	// StatusNoRecords means the structure was found but no employee row
	// carried attendance entries.
	StatusNoRecords
)

// String returns a short description of the status.
func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusNoHeaderRow:
		return "no date header row"
	case StatusNoDateColumns:
		return "no valid date columns"
	case StatusNoRecords:
		return "no employee records"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the structured result of parsing one sheet.
type Outcome struct {
	// SheetName is the name the records were tagged with.
	SheetName string

	// Status reports whether records were found and, if not, why.
	Status Status

	// HeaderRow is the 0-based index of the date header row, or -1.
	HeaderRow int

	// DataStartRow is the first row scanned for employees, or -1.
	DataStartRow int

	// DateColumns are the resolved date columns, in column order.
	DateColumns []types.DateColumn

	// Records are the extracted attendance records, in row order.
	Records []types.AttendanceRecord

	// SkippedRows counts rows below the header that produced no record.
	SkippedRows int
}

// =============================================================================
// PARSER
// =============================================================================

// Parser applies a fixed set of Options to any number of sheets. A Parser
// holds no mutable state and is safe for concurrent use.
type Parser struct {
	opts         Options
	yearPattern  *regexp.Regexp
	placeholders map[string]struct{}
}

// New creates a Parser. Unset options take their defaults.
func New(opts Options) *Parser {
	applyDefaults(&opts)

	years := make([]string, len(opts.AllowedYears))
	for i, y := range opts.AllowedYears {
		years[i] = strconv.Itoa(y)
	}
	// A listed year not embedded in a longer number, then "-" and a digit.
	pattern := regexp.MustCompile(`(?:^|[^0-9])(?:` + strings.Join(years, "|") + `)-[0-9]`)

	placeholders := make(map[string]struct{}, len(opts.Placeholders))
	for _, p := range opts.Placeholders {
		placeholders[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	return &Parser{
		opts:         opts,
		yearPattern:  pattern,
		placeholders: placeholders,
	}
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse extracts attendance records from a grid using the default options.
// It returns an empty slice when the sheet has no usable structure.
func Parse(grid types.Grid, sheetName string) []types.AttendanceRecord {
	return New(DefaultOptions()).ParseSheet(grid, sheetName).Records
}

// ParseSheet runs the full parsing pipeline on one grid.
//
// PARAMETERS:
//   - grid: The sheet's cells.
//   - sheetName: The name stored on every record.
//
// RETURNS:
//   - An Outcome. Records is never nil.
func (p *Parser) ParseSheet(grid types.Grid, sheetName string) Outcome {
	outcome := Outcome{
		SheetName:    sheetName,
		HeaderRow:    -1,
		DataStartRow: -1,
		Records:      []types.AttendanceRecord{},
	}

	// =========================================================================
	// STEP 1: HEADER ROW
	// =========================================================================

	headerRow, ok := p.FindHeaderRow(grid)
	if !ok {
		outcome.Status = StatusNoHeaderRow
		return outcome
	}
	outcome.HeaderRow = headerRow

	// =========================================================================
	// STEP 2: DATE COLUMNS
	// =========================================================================

	dateColumns := p.ExtractDateColumns(grid, headerRow)
	if len(dateColumns) == 0 {
		outcome.Status = StatusNoDateColumns
		return outcome
	}
	outcome.DateColumns = dateColumns

	// =========================================================================
	// STEP 3: EMPLOYEE REGION
	// =========================================================================

	start := headerRow + 1
	if p.isSubHeader(grid.Cell(start, p.opts.NameColumn)) {
		start++
	}
	outcome.DataStartRow = start

	// =========================================================================
	// STEP 4: RECORDS
	// =========================================================================

	index := make(map[recordKey]int)
	for row := start; row < grid.RowCount(); row++ {
		record, ok := p.extractRecord(grid, row, dateColumns, sheetName)
		if !ok {
			outcome.SkippedRows++
			continue
		}

		key := recordKey{name: record.EmployeeName, id: record.EmployeeID}
		if i, seen := index[key]; seen {
			// Same employee listed twice in one sheet: fold into the first row.
			for date, status := range record.Days {
				outcome.Records[i].Days[date] = status
			}
			continue
		}
		index[key] = len(outcome.Records)
		outcome.Records = append(outcome.Records, record)
	}

	if len(outcome.Records) == 0 {
		outcome.Status = StatusNoRecords
		return outcome
	}

	outcome.Status = StatusParsed
	return outcome
}

// recordKey identifies a record within one sheet.
type recordKey struct {
	name string
	id   string
}

// =============================================================================
// HEADER DETECTION
// =============================================================================

// FindHeaderRow returns the first row within the lookahead window whose
// date-like cell count reaches MinDateCells.
func (p *Parser) FindHeaderRow(grid types.Grid) (int, bool) {
	limit := p.opts.HeaderLookahead
	if grid.RowCount() < limit {
		limit = grid.RowCount()
	}

	for row := 0; row < limit; row++ {
		count := 0
		for col := 0; col < grid.RowWidth(row); col++ {
			if p.LooksLikeDate(grid.Cell(row, col)) {
				count++
			}
		}
		if count >= p.opts.MinDateCells {
			return row, true
		}
	}

	return -1, false
}

// LooksLikeDate reports whether a cell could be a date header: a native
// date, or text carrying an allowed "YYYY-" prefix followed by digits and
// long enough not to be a bare year.
func (p *Parser) LooksLikeDate(cell types.Cell) bool {
	switch cell.Kind {
	case types.CellDate:
		return true
	case types.CellText:
		text := strings.TrimSpace(cell.Text)
		return len(text) >= p.opts.MinDateTextLength && p.yearPattern.MatchString(text)
	default:
		return false
	}
}

// =============================================================================
// DATE COLUMNS
// =============================================================================

// ExtractDateColumns resolves the header cells of headerRow into dates.
// Columns before IdentityColumns, empty cells and cells that do not parse
// are skipped.
func (p *Parser) ExtractDateColumns(grid types.Grid, headerRow int) []types.DateColumn {
	var columns []types.DateColumn

	for col := p.opts.IdentityColumns; col < grid.RowWidth(headerRow); col++ {
		cell := grid.Cell(headerRow, col)
		if cell.IsEmpty() {
			continue
		}

		date, ok := p.resolveDate(cell)
		if !ok {
			continue
		}

		columns = append(columns, types.DateColumn{
			Index: col,
			Date:  date,
			Key:   date.Format(types.DateLayout),
		})
	}

	return columns
}

// resolveDate turns a header cell into a calendar date at midnight UTC.
func (p *Parser) resolveDate(cell types.Cell) (time.Time, bool) {
	switch cell.Kind {
	case types.CellDate:
		return calendarDate(cell.Date), true

	case types.CellText:
		text := strings.TrimSpace(cell.Text)
		// Drop a trailing time of day ("2025-09-01 00:00").
		if i := strings.IndexByte(text, ' '); i >= 0 {
			text = text[:i]
		}
		for _, layout := range p.opts.DateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return calendarDate(t), true
			}
		}
		return time.Time{}, false

	default:
		return time.Time{}, false
	}
}

// calendarDate strips the time of day.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// RECORDS
// =============================================================================

// extractRecord builds a record from one row. It reports false when the
// row has no usable name or no attendance entries.
func (p *Parser) extractRecord(grid types.Grid, row int, dateColumns []types.DateColumn, sheetName string) (types.AttendanceRecord, bool) {
	name := strings.TrimSpace(grid.Cell(row, p.opts.NameColumn).String())
	if name == "" || p.isPlaceholder(name) {
		return types.AttendanceRecord{}, false
	}

	days := make(map[string]string)
	for _, dc := range dateColumns {
		cell := grid.Cell(row, dc.Index)
		if cell.IsEmpty() {
			continue
		}
		status := strings.TrimSpace(cell.String())
		if status == "" {
			continue
		}
		days[dc.Key] = status
	}
	if len(days) == 0 {
		return types.AttendanceRecord{}, false
	}

	process := strings.TrimSpace(grid.Cell(row, p.opts.ProcessColumn).String())
	if process == "" {
		process = p.opts.UnknownProcess
	}

	return types.AttendanceRecord{
		Process:      process,
		EmployeeID:   strings.TrimSpace(grid.Cell(row, p.opts.IDColumn).String()),
		EmployeeName: name,
		SheetName:    sheetName,
		Days:         days,
	}, true
}

// isSubHeader reports whether the cell holds the repeated sub-header marker.
func (p *Parser) isSubHeader(cell types.Cell) bool {
	return cell.Kind == types.CellText && strings.TrimSpace(cell.Text) == p.opts.SubHeaderMarker
}

// isPlaceholder reports whether a name-column value is a placeholder.
func (p *Parser) isPlaceholder(name string) bool {
	_, ok := p.placeholders[strings.ToLower(name)]
	return ok
}
