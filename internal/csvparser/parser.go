// =============================================================================
// Attendance Summary - CSV Parser Module
// =============================================================================
//
// This module reads delimited text files. It serves two callers:
//   - The grid loader for .csv attendance exports: one file becomes one
//     single-sheet Grid named after the file.
//   - The report reader, which re-parses summary reports written by this
//     application into header-keyed rows.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon, any single rune)
//   - Variable field counts and lazy quotes, as spreadsheet exports vary
//   - UTF-8 byte order mark stripped from the first field
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

const byteOrderMark = "\uFEFF"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed delimited file with a single header row.
type CSVData struct {
	// Headers contains the trimmed column headers.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// RawRows contains the data rows as read, in file order.
	RawRows [][]string

	// RowCount is the number of non-empty data rows.
	RowCount int

	// ColumnCount is the number of headers.
	ColumnCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited file with a header row.
//
// PARAMETERS:
//   - filePath: The path to the file.
//   - settings: The delimiter settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read, is empty, or is malformed.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, settings)
}

// ParseReader reads delimited data with a header row from r.
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	allRows, err := readAll(r, settings)
	if err != nil {
		return nil, err
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])
	rows, raw := extractDataRows(allRows[1:], headers)

	return &CSVData{
		Headers:     headers,
		Rows:        rows,
		RawRows:     raw,
		RowCount:    len(rows),
		ColumnCount: len(headers),
	}, nil
}

// LoadGrid reads a .csv attendance export as a single sheet. The grid is
// named after the file without its extension. Every non-empty field is a
// text cell; the sheet parser resolves dates from text.
func LoadGrid(filePath string, settings config.CSVSettings) (types.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return types.Grid{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return ReadGrid(file, name, settings)
}

// ReadGrid reads delimited data from r into a Grid called name.
func ReadGrid(r io.Reader, name string, settings config.CSVSettings) (types.Grid, error) {
	allRows, err := readAll(r, settings)
	if err != nil {
		return types.Grid{}, err
	}

	grid := types.Grid{Name: name, Rows: make([][]types.Cell, len(allRows))}
	for i, row := range allRows {
		cells := make([]types.Cell, len(row))
		for j, value := range row {
			if strings.TrimSpace(value) == "" {
				cells[j] = types.EmptyCell()
			} else {
				cells[j] = types.TextCell(value)
			}
		}
		grid.Rows[i] = cells
	}

	return grid, nil
}

func readAll(r io.Reader, settings config.CSVSettings) ([][]string, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) > 0 && len(allRows[0]) > 0 {
		allRows[0][0] = strings.TrimPrefix(allRows[0][0], byteOrderMark)
	}

	return allRows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Spreadsheet exports pad short rows inconsistently.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
}

// Delimiter resolves a configured delimiter name to its rune. Unknown
// multi-character names fall back to their first rune; empty means comma.
func Delimiter(value string) rune {
	switch value {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	case "":
		return ','
	default:
		r, _ := utf8.DecodeRuneInString(value)
		return r
	}
}

// cleanHeaders trims header values and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts rows to header-keyed maps, skipping empty rows.
// Missing trailing fields read as "".
func extractDataRows(rows [][]string, headers []string) ([]map[string]string, [][]string) {
	dataRows := make([]map[string]string, 0, len(rows))
	raw := make([][]string, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = row[colIndex]
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
		raw = append(raw, row)
	}

	return dataRows, raw
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// RequireHeaders returns an error naming any header that is missing.
func (d *CSVData) RequireHeaders(names ...string) error {
	present := make(map[string]bool, len(d.Headers))
	for _, h := range d.Headers {
		present[h] = true
	}

	var missing []string
	for _, name := range names {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
