package xlsxparser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// writeWorkbook saves a two-sheet attendance workbook and returns its path.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "September"))
	sept := "September"
	require.NoError(t, f.SetCellValue(sept, "A1", "Attendance September"))
	require.NoError(t, f.SetCellValue(sept, "D2", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sept, "E2", time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sept, "F2", "2025-09-03 00:00:00"))
	require.NoError(t, f.SetSheetRow(sept, "A3", &[]any{"Ops", 1001, "Alice", "W", "PL", "Halfday"}))
	require.NoError(t, f.SetCellValue(sept, "G3", true))

	_, err := f.NewSheet("October")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("October", "A1", &[]any{"", "", "", "2025-10-01", "2025-10-02", "2025-10-03"}))
	require.NoError(t, f.SetSheetRow("October", "A2", &[]any{"Ops", "E2", "Bob", "W", "W", "OFF"}))

	path := filepath.Join(t.TempDir(), "attendance.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook_SheetsInOrder(t *testing.T) {
	grids, err := LoadWorkbook(writeWorkbook(t))

	require.NoError(t, err)
	require.Len(t, grids, 2)
	assert.Equal(t, "September", grids[0].Name)
	assert.Equal(t, "October", grids[1].Name)
}

func TestLoadWorkbook_CellKinds(t *testing.T) {
	grids, err := LoadWorkbook(writeWorkbook(t))
	require.NoError(t, err)
	sept := grids[0]

	title := sept.Cell(0, 0)
	assert.Equal(t, types.CellText, title.Kind)
	assert.Equal(t, "Attendance September", title.Text)

	assert.True(t, sept.Cell(1, 0).IsEmpty())

	d := sept.Cell(1, 3)
	require.Equal(t, types.CellDate, d.Kind)
	assert.Equal(t, "2025-09-01", d.Date.Format(types.DateLayout))

	textDate := sept.Cell(1, 5)
	assert.Equal(t, types.CellText, textDate.Kind)
	assert.Equal(t, "2025-09-03 00:00:00", textDate.Text)

	id := sept.Cell(2, 1)
	assert.Equal(t, types.CellNumber, id.Kind)
	assert.Equal(t, "1001", id.String())

	assert.Equal(t, "Halfday", sept.Cell(2, 5).String())
	assert.Equal(t, "TRUE", sept.Cell(2, 6).String())
}

func TestReadWorkbook_FromReader(t *testing.T) {
	data, err := os.ReadFile(writeWorkbook(t))
	require.NoError(t, err)

	grids, err := ReadWorkbook(bytes.NewReader(data))

	require.NoError(t, err)
	require.Len(t, grids, 2)
	assert.Equal(t, "Bob", grids[1].Cell(1, 2).String())
}

func TestLoadSheet(t *testing.T) {
	path := writeWorkbook(t)

	grid, err := LoadSheet(path, "October")
	require.NoError(t, err)
	assert.Equal(t, "October", grid.Name)
	assert.Equal(t, 2, grid.RowCount())

	_, err = LoadSheet(path, "November")
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	names, err := SheetNames(writeWorkbook(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"September", "October"}, names)
}

func TestLoadWorkbook_RejectsLegacyXls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.xls")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := LoadWorkbook(path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadWorkbook_MissingFile(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("a.xlsx"))
	assert.True(t, IsWorkbook("A.XLSM"))
	assert.False(t, IsWorkbook("a.xls"))
	assert.False(t, IsWorkbook("a.csv"))
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name   string
		id     int
		custom *string
		want   bool
	}{
		{"general", 0, nil, false},
		{"integer", 1, nil, false},
		{"m/d/yy", 14, nil, true},
		{"d-mmm", 16, nil, true},
		{"m/d/yy h:mm", 22, nil, true},
		{"time only", 20, nil, false},
		{"percent", 10, nil, false},
		{"custom iso", 164, custom("yyyy-mm-dd"), true},
		{"custom day name", 165, custom("dddd"), true},
		{"custom time", 166, custom("hh:mm:ss"), false},
		{"quoted literal", 167, custom(`0.00" days"`), false},
		{"locale bracket", 168, custom("[$-409]0.00"), false},
		{"locale with date", 169, custom("[$-409]d-mmm-yy"), true},
		{"escaped d", 170, custom(`0\d`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateFormat(tt.id, tt.custom))
		})
	}
}
