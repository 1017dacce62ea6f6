// =============================================================================
// Attendance Summary - Shared Types
// =============================================================================
//
// This package contains the data model shared by the loaders, the sheet
// parser, the summary aggregator and the report writers. Keeping the types
// here avoids import cycles between:
//   - xlsxparser / csvparser (produce Grids)
//   - sheetparser            (Grid -> AttendanceRecord)
//   - summary                (AttendanceRecord -> SummaryRow -> CombinedSummaryRow)
//   - report / validation    (consume all of the above)
//
// =============================================================================

package types

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for every date key.
const DateLayout = "2006-01-02"

// =============================================================================
// CELLS AND GRIDS
// =============================================================================

// CellKind tags the value held by a Cell.
type CellKind int

const (
	// CellEmpty is a blank cell.
	CellEmpty CellKind = iota

	// CellText holds a string value.
	CellText

	// CellNumber holds a numeric value.
	CellNumber

	// CellDate holds a calendar date (optionally with a time of day).
	CellDate
)

// String returns the name of the kind.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a single untyped spreadsheet value. Exactly one of Text, Number or
// Date is meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// DateCell returns a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// IsEmpty reports whether the cell carries no usable value. Text cells that
// contain only whitespace count as empty.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell the way it would be displayed in a report.
//
// RENDERING:
//   - text:   as-is
//   - number: shortest exact form ("101", "2.5")
//   - date:   "2006-01-02", or "2006-01-02 15:04:05" when a time is present
//   - empty:  ""
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		h, m, s := c.Date.Clock()
		if h == 0 && m == 0 && s == 0 {
			return c.Date.Format(DateLayout)
		}
		return c.Date.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Grid is one sheet worth of cells, indexed by 0-based row and column.
// Rows may be ragged.
type Grid struct {
	// Name is the source sheet name.
	Name string

	// Rows holds the cells, row-major.
	Rows [][]Cell
}

// Cell returns the cell at (row, col), or an empty cell when the position
// lies outside the grid.
func (g Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return EmptyCell()
	}
	return g.Rows[row][col]
}

// RowCount returns the number of rows.
func (g Grid) RowCount() int { return len(g.Rows) }

// RowWidth returns the number of cells in the given row.
func (g Grid) RowWidth(row int) int {
	if row < 0 || row >= len(g.Rows) {
		return 0
	}
	return len(g.Rows[row])
}

// =============================================================================
// PARSED RECORDS
// =============================================================================

// DateColumn maps a grid column to the calendar date found in its header.
type DateColumn struct {
	// Index is the 0-based column index.
	Index int

	// Date is the resolved calendar date (time of day stripped).
	Date time.Time

	// Key is Date formatted with DateLayout.
	Key string
}

// AttendanceRecord is one employee's attendance taken from one sheet.
type AttendanceRecord struct {
	Process      string
	EmployeeID   string
	EmployeeName string
	SheetName    string

	// Days maps an ISO date key to the raw status code for that day.
	// Dates with no entry in the source are absent from the map.
	Days map[string]string
}

// =============================================================================
// STATUS CATEGORIES
// =============================================================================

// Category is the classification of a raw status code.
type Category int

const (
	Present Category = iota
	PlannedLeave
	UnplannedLeave
	SickLeave
	CasualLeave
	CompensatoryOff
	HalfDay
	Absent
	Off
	Resigned
	Unclassified
)

// CountedCategories lists the categories that appear in summaries, in
// report column order.
var CountedCategories = []Category{
	Present,
	PlannedLeave,
	UnplannedLeave,
	SickLeave,
	CasualLeave,
	CompensatoryOff,
	HalfDay,
	Absent,
	Off,
	Resigned,
}

// String returns the report column label of the category.
func (c Category) String() string {
	switch c {
	case Present:
		return "Present"
	case PlannedLeave:
		return "Planned Leave"
	case UnplannedLeave:
		return "Unplanned Leave"
	case SickLeave:
		return "Sick Leave"
	case CasualLeave:
		return "Casual Leave"
	case CompensatoryOff:
		return "Compensatory Off"
	case HalfDay:
		return "Half Day"
	case Absent:
		return "Absent"
	case Off:
		return "Off"
	case Resigned:
		return "Resigned"
	default:
		return "Unclassified"
	}
}

// CategoryCounts holds one day count per counted category.
type CategoryCounts struct {
	Present         int
	PlannedLeave    int
	UnplannedLeave  int
	SickLeave       int
	CasualLeave     int
	CompensatoryOff int
	HalfDay         int
	Absent          int
	Off             int
	Resigned        int
}

// field returns a pointer to the counter for c, or nil for Unclassified.
func (cc *CategoryCounts) field(c Category) *int {
	switch c {
	case Present:
		return &cc.Present
	case PlannedLeave:
		return &cc.PlannedLeave
	case UnplannedLeave:
		return &cc.UnplannedLeave
	case SickLeave:
		return &cc.SickLeave
	case CasualLeave:
		return &cc.CasualLeave
	case CompensatoryOff:
		return &cc.CompensatoryOff
	case HalfDay:
		return &cc.HalfDay
	case Absent:
		return &cc.Absent
	case Off:
		return &cc.Off
	case Resigned:
		return &cc.Resigned
	default:
		return nil
	}
}

// Increment adds one day to the counter of c. Unclassified is ignored.
func (cc *CategoryCounts) Increment(c Category) {
	if p := cc.field(c); p != nil {
		*p++
	}
}

// Set overwrites the counter of c. Unclassified is ignored.
func (cc *CategoryCounts) Set(c Category, n int) {
	if p := cc.field(c); p != nil {
		*p = n
	}
}

// Get returns the counter of c. Unclassified always reads 0.
func (cc CategoryCounts) Get(c Category) int {
	if p := cc.field(c); p != nil {
		return *p
	}
	return 0
}

// Add returns the element-wise sum of cc and other.
func (cc CategoryCounts) Add(other CategoryCounts) CategoryCounts {
	sum := cc
	for _, c := range CountedCategories {
		sum.Set(c, cc.Get(c)+other.Get(c))
	}
	return sum
}

// =============================================================================
// SUMMARY ROWS
// =============================================================================

// SummaryRow is one employee's totals for one sheet over one date range.
type SummaryRow struct {
	Process      string
	EmployeeID   string
	EmployeeName string
	SheetName    string

	Counts CategoryCounts

	// TotalWorkingDays is the weighted day total; half days count 0.5.
	TotalWorkingDays float64
}

// EmployeeKey identifies an employee across sheets.
type EmployeeKey struct {
	Process      string
	EmployeeID   string
	EmployeeName string
}

// Key returns the grouping key used to combine rows across sheets.
func (r SummaryRow) Key() EmployeeKey {
	return EmployeeKey{Process: r.Process, EmployeeID: r.EmployeeID, EmployeeName: r.EmployeeName}
}

// CombinedSummaryRow is one employee's totals across every sheet in scope.
type CombinedSummaryRow struct {
	Process      string
	EmployeeID   string
	EmployeeName string

	// ContributingSheets holds the distinct sheet names, sorted.
	ContributingSheets []string

	Counts           CategoryCounts
	TotalWorkingDays float64
}

// SheetsDisplay joins the contributing sheet names for display.
func (r CombinedSummaryRow) SheetsDisplay() string {
	return strings.Join(r.ContributingSheets, ", ")
}
