package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

var comma = config.CSVSettings{Delimiter: ","}

func TestParseReader(t *testing.T) {
	input := "\uFEFFProcess, EMP ID ,Emp Name,\n" +
		"Ops,E1,Alice,x\n" +
		",,,\n" +
		"Sales,E2,\"Smith, Bob\"\n"

	data, err := ParseReader(strings.NewReader(input), comma)

	require.NoError(t, err)
	assert.Equal(t, []string{"Process", "EMP ID", "Emp Name", "Column_4"}, data.Headers)
	assert.Equal(t, 2, data.RowCount)
	assert.Equal(t, 4, data.ColumnCount)
	assert.Equal(t, "Alice", data.Rows[0]["Emp Name"])
	assert.Equal(t, "Smith, Bob", data.Rows[1]["Emp Name"])
	assert.Equal(t, "", data.Rows[1]["Column_4"])
	assert.Len(t, data.RawRows, 2)
}

func TestParseReader_Empty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), comma)
	assert.Error(t, err)
}

func TestParseReader_QuotedNewline(t *testing.T) {
	input := "Name,Note\n\"Alice\",\"line one\nline two\"\n"

	data, err := ParseReader(strings.NewReader(input), comma)

	require.NoError(t, err)
	require.Equal(t, 1, data.RowCount)
	assert.Equal(t, "line one\nline two", data.Rows[0]["Note"])
}

func TestDelimiter(t *testing.T) {
	tests := map[string]rune{
		"":          ',',
		",":         ',',
		"tab":       '\t',
		"\\t":       '\t',
		"pipe":      '|',
		"|":         '|',
		"semicolon": ';',
		"#":         '#',
	}

	for value, want := range tests {
		assert.Equal(t, want, Delimiter(value), value)
	}
}

func TestReadGrid(t *testing.T) {
	input := "Attendance;;;;\n" +
		";;;2025-09-01;2025-09-02\n" +
		"Ops;E1;Alice;W;  \n"

	grid, err := ReadGrid(strings.NewReader(input), "September", config.CSVSettings{Delimiter: "semicolon"})

	require.NoError(t, err)
	assert.Equal(t, "September", grid.Name)
	assert.Equal(t, 3, grid.RowCount())
	assert.Equal(t, types.CellText, grid.Cell(1, 3).Kind)
	assert.Equal(t, "2025-09-01", grid.Cell(1, 3).Text)
	assert.True(t, grid.Cell(2, 4).IsEmpty())
	assert.Equal(t, types.CellEmpty, grid.Cell(1, 0).Kind)
}

func TestLoadGrid_NamedAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "October 2025.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o644))

	grid, err := LoadGrid(path, comma)

	require.NoError(t, err)
	assert.Equal(t, "October 2025", grid.Name)
}

func TestLoadGrid_MissingFile(t *testing.T) {
	_, err := LoadGrid(filepath.Join(t.TempDir(), "missing.csv"), comma)
	assert.Error(t, err)
}

func TestRequireHeaders(t *testing.T) {
	data, err := ParseReader(strings.NewReader("Process,Present\n"), comma)
	require.NoError(t, err)

	assert.NoError(t, data.RequireHeaders("Process", "Present"))

	err = data.RequireHeaders("Process", "Absent", "Off")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Absent, Off")
}
