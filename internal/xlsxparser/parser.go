// =============================================================================
// Attendance Summary - XLSX Grid Loader
// =============================================================================
//
// This module reads every sheet of an attendance workbook into an untyped
// grid of cells. It knows nothing about attendance; locating headers and
// employees is the sheet parser's job.
//
// CELL MAPPING:
//
//   | Stored cell                          | Grid cell            |
//   |--------------------------------------|----------------------|
//   | blank                                | EmptyCell            |
//   | shared/inline string, formula string | TextCell             |
//   | number with a date number format     | DateCell             |
//   | number                               | NumberCell           |
//   | ISO 8601 date cell (t="d")           | DateCell             |
//   | boolean                              | TextCell TRUE/FALSE  |
//   | error                                | TextCell (#N/A, ...) |
//
// Raw values are read so that a date header is never rendered through the
// workbook's display format before it reaches the parser.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// ErrUnsupportedFormat is returned for workbook formats excelize cannot
// open, such as legacy binary .xls files.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// SupportedExtensions lists the workbook extensions the loader accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm"}

// IsWorkbook reports whether path has a supported workbook extension.
func IsWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// =============================================================================
// LOADING
// =============================================================================

// LoadWorkbook reads every sheet of the workbook at path.
//
// PARAMETERS:
//   - path: The path to an .xlsx or .xlsm file.
//
// RETURNS:
//   - One Grid per sheet, in workbook order. Hidden sheets are included.
//   - ErrUnsupportedFormat for .xls files, or an error if the file cannot
//     be opened or a sheet cannot be read.
func LoadWorkbook(path string) ([]types.Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return nil, fmt.Errorf("%s: %w (save the file as .xlsx)", path, ErrUnsupportedFormat)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readAll(f)
}

// ReadWorkbook reads every sheet of a workbook from r.
func ReadWorkbook(r io.Reader) ([]types.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readAll(f)
}

// LoadSheet reads a single named sheet.
func LoadSheet(path, sheetName string) (types.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return types.Grid{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return types.Grid{}, fmt.Errorf("sheet '%s' not found in %s", sheetName, path)
	}

	return newSheetReader(f).read(sheetName)
}

// SheetNames lists the sheets of the workbook at path, in workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

func readAll(f *excelize.File) ([]types.Grid, error) {
	reader := newSheetReader(f)

	sheets := f.GetSheetList()
	grids := make([]types.Grid, 0, len(sheets))
	for _, name := range sheets {
		grid, err := reader.read(name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet '%s': %w", name, err)
		}
		grids = append(grids, grid)
	}

	return grids, nil
}

// =============================================================================
// SHEET READER
// =============================================================================

// sheetReader converts the cells of one open workbook. Style lookups are
// cached because every cell of a date header row tends to share one style.
type sheetReader struct {
	file       *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

func newSheetReader(f *excelize.File) *sheetReader {
	r := &sheetReader{file: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

func (r *sheetReader) read(sheetName string) (types.Grid, error) {
	rows, err := r.file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return types.Grid{}, fmt.Errorf("failed to read rows: %w", err)
	}

	grid := types.Grid{Name: sheetName, Rows: make([][]types.Cell, len(rows))}
	for rowIdx, row := range rows {
		cells := make([]types.Cell, len(row))
		for colIdx, raw := range row {
			cells[colIdx] = r.cell(sheetName, rowIdx, colIdx, raw)
		}
		grid.Rows[rowIdx] = cells
	}

	return grid, nil
}

// cell converts one raw value using the stored cell type and style.
func (r *sheetReader) cell(sheetName string, rowIdx, colIdx int, raw string) types.Cell {
	if raw == "" {
		return types.EmptyCell()
	}

	ref, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return types.TextCell(raw)
	}

	cellType, err := r.file.GetCellType(sheetName, ref)
	if err != nil {
		return types.TextCell(raw)
	}

	switch cellType {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return types.TextCell("TRUE")
		}
		return types.TextCell("FALSE")

	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return types.DateCell(t)
		}
		return types.TextCell(raw)

	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.TextCell(raw)
		}
		if r.isDateStyled(sheetName, ref) {
			if t, err := excelize.ExcelDateToTime(v, r.date1904); err == nil {
				return types.DateCell(t)
			}
		}
		return types.NumberCell(v)

	default:
		return types.TextCell(raw)
	}
}

// isDateStyled reports whether the cell's number format renders a date.
func (r *sheetReader) isDateStyled(sheetName, ref string) bool {
	styleID, err := r.file.GetCellStyle(sheetName, ref)
	if err != nil || styleID == 0 {
		return false
	}

	if cached, ok := r.dateStyles[styleID]; ok {
		return cached
	}

	isDate := false
	if style, err := r.file.GetStyle(styleID); err == nil && style != nil {
		isDate = IsDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyles[styleID] = isDate

	return isDate
}

// =============================================================================
// NUMBER FORMATS
// =============================================================================

// IsDateFormat reports whether a number format displays a date. Built-in
// formats are matched by ID; custom formats by the presence of a year or
// day token outside quoted literals and bracketed sections.
func IsDateFormat(numFmtID int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customFormatHasDate(*custom)
	}

	switch {
	case numFmtID >= 14 && numFmtID <= 17:
		return true
	case numFmtID == 22:
		return true
	case numFmtID >= 27 && numFmtID <= 36:
		return true
	case numFmtID >= 50 && numFmtID <= 58:
		return true
	default:
		return false
	}
}

func customFormatHasDate(format string) bool {
	inQuote := false
	inBracket := false

	for i := 0; i < len(format); i++ {
		ch := format[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\':
			i++ // escaped literal
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D':
			return true
		}
	}

	return false
}

// parseISODate reads the value of a t="d" cell.
func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
