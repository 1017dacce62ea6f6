package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/logging"
	"github.com/ginjaninja78/attendance-summary/internal/sheetparser"
	"github.com/ginjaninja78/attendance-summary/internal/types"
	"github.com/ginjaninja78/attendance-summary/internal/xlsxparser"
)

func newPipeline() *Pipeline {
	return New(config.Default(), logging.Discard())
}

// writeWorkbook builds a workbook with one parseable sheet per month and
// one sheet without structure.
func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "September"))
	for i := 0; i < 3; i++ {
		cell, _ := excelize.CoordinatesToCellName(4+i, 1)
		require.NoError(t, f.SetCellValue("September", cell, time.Date(2025, 9, 1+i, 0, 0, 0, 0, time.UTC)))
	}
	require.NoError(t, f.SetSheetRow("September", "A2", &[]any{"Process", "EMP ID", "Emp Name"}))
	require.NoError(t, f.SetSheetRow("September", "A3", &[]any{"Ops", "E1", "Alice", "W", "Halfday", "OFF"}))
	require.NoError(t, f.SetSheetRow("September", "A4", &[]any{"Ops", "E2", "Bob", "PL", "W", "W"}))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "nothing to see"))

	_, err = f.NewSheet("October")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("October", "A1", &[]any{"", "", "", "2025-10-01", "2025-10-02", "2025-10-03"}))
	require.NoError(t, f.SetSheetRow("October", "A2", &[]any{"Ops", "E1", "Alice", "W", "W", "SL"}))

	path := filepath.Join(dir, "attendance.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRun_Workbook(t *testing.T) {
	path := writeWorkbook(t, t.TempDir())

	result := newPipeline().Run(context.Background(), path)

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	require.Len(t, result.Sheets, 3)
	assert.Equal(t, "September", result.Sheets[0].SheetName)
	assert.Equal(t, sheetparser.StatusParsed, result.Sheets[0].Status)
	assert.Equal(t, sheetparser.StatusNoHeaderRow, result.Sheets[1].Status)
	assert.Equal(t, "October", result.Sheets[2].SheetName)

	assert.Equal(t, 3, result.Stats.SheetsRead)
	assert.Equal(t, 2, result.Stats.SheetsParsed)
	assert.Equal(t, 3, result.Stats.RecordsExtracted)

	records := result.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Alice", records[0].EmployeeName)
	assert.Equal(t, map[string]string{"2025-09-01": "W", "2025-09-02": "Halfday", "2025-09-03": "OFF"}, records[0].Days)
	assert.Equal(t, "October", records[2].SheetName)
}

func TestRun_CSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "November.csv")
	content := ",,,2025-11-03,2025-11-04,2025-11-05\nOps,E1,Alice,W,UPL,CL\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result := newPipeline().Run(context.Background(), path)

	require.NoError(t, result.Error)
	records := result.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "November", records[0].SheetName)
	assert.Equal(t, "UPL", records[0].Days["2025-11-04"])
}

func TestRun_UnsupportedFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"legacy.xls", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		result := newPipeline().Run(context.Background(), path)

		assert.False(t, result.Success, name)
		assert.ErrorIs(t, result.Error, xlsxparser.ErrUnsupportedFormat, name)
	}
}

func TestParseGrids_KeepsOrderUnderConcurrency(t *testing.T) {
	cfg := config.Default()
	cfg.Processing.MaxConcurrency = 3
	p := New(cfg, logging.Discard())

	var grids []types.Grid
	for i := 0; i < 20; i++ {
		grids = append(grids, types.Grid{Name: string(rune('A' + i))})
	}

	outcomes, err := p.ParseGrids(context.Background(), grids)

	require.NoError(t, err)
	require.Len(t, outcomes, 20)
	for i, outcome := range outcomes {
		assert.Equal(t, grids[i].Name, outcome.SheetName)
	}
}

func TestParseGrids_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline().ParseGrids(ctx, []types.Grid{{Name: "A"}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll_InputOrderAndIsolation(t *testing.T) {
	dir := t.TempDir()
	good := writeWorkbook(t, dir)
	missing := filepath.Join(dir, "missing.xlsx")

	results := newPipeline().RunAll(context.Background(), []string{missing, good})

	require.Len(t, results, 2)
	assert.Equal(t, missing, results[0].FilePath)
	assert.Error(t, results[0].Error)
	assert.Equal(t, good, results[1].FilePath)
	assert.NoError(t, results[1].Error)

	records, err := CollectRecords(results)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	totals := Totals(results)
	assert.Equal(t, 3, totals.SheetsRead)
	assert.Equal(t, 3, totals.RecordsExtracted)
}

func TestCollectRecords_NoAttendanceData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("just,a,note\n"), 0o644))

	results := newPipeline().RunAll(context.Background(), []string{path})

	_, err := CollectRecords(results)
	assert.True(t, errors.Is(err, ErrNoAttendanceData))
}
