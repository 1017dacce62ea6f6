// =============================================================================
// Attendance Summary - Ingest Pipeline
// =============================================================================
//
// This module turns input files into attendance records.
//
// PIPELINE (per file):
//   1. Load the file into grids: every sheet of a workbook, or the single
//      sheet of a CSV export.
//   2. Parse the grids concurrently, bounded by processing.max_concurrency.
//      Outcomes keep workbook sheet order.
//   3. Collect records and statistics. Sheets without structure are logged
//      and skipped.
//
// CONCURRENCY:
//   Files are processed in their own goroutines and results are returned
//   in input order. A failing file does not stop the others.
//
// =============================================================================

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/csvparser"
	"github.com/ginjaninja78/attendance-summary/internal/sheetparser"
	"github.com/ginjaninja78/attendance-summary/internal/types"
	"github.com/ginjaninja78/attendance-summary/internal/xlsxparser"
)

// ErrNoAttendanceData is returned when no sheet of any input yields a
// record.
var ErrNoAttendanceData = errors.New("no usable attendance data found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of ingesting a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// Sheets holds one parse outcome per sheet, in sheet order.
	Sheets []sheetparser.Outcome

	// Success is true when the file was read, even if no sheet held data.
	Success bool

	// Error is set when the file could not be read.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Records returns the records of every parsed sheet, in sheet order.
func (r Result) Records() []types.AttendanceRecord {
	var records []types.AttendanceRecord
	for _, outcome := range r.Sheets {
		records = append(records, outcome.Records...)
	}
	return records
}

// ProcessingStats contains statistics about one file.
type ProcessingStats struct {
	// SheetsRead is the number of sheets loaded.
	SheetsRead int

	// SheetsParsed is the number of sheets that produced records.
	SheetsParsed int

	// RecordsExtracted is the number of employee records found.
	RecordsExtracted int

	// RowsSkipped is the number of rows below a header that held no record.
	RowsSkipped int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline ingests files with one configuration. It is safe for concurrent
// use.
type Pipeline struct {
	parser         *sheetparser.Parser
	csvSettings    config.CSVSettings
	maxConcurrency int
	logger         *slog.Logger
}

// New creates a Pipeline from the configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	maxConcurrency := cfg.Processing.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Pipeline{
		parser:         sheetparser.New(cfg.ParserOptions()),
		csvSettings:    cfg.CSV,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run ingests one file.
func (p *Pipeline) Run(ctx context.Context, path string) Result {
	startTime := time.Now()
	result := Result{FilePath: path}

	p.logger.InfoContext(ctx, "processing file", "file", path)

	// =========================================================================
	// STEP 1: LOAD GRIDS
	// =========================================================================

	grids, err := LoadGrids(path, p.csvSettings)
	if err != nil {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}
	result.Stats.SheetsRead = len(grids)

	// =========================================================================
	// STEP 2: PARSE SHEETS
	// =========================================================================

	outcomes, err := p.ParseGrids(ctx, grids)
	if err != nil {
		result.Error = fmt.Errorf("parsing interrupted: %w", err)
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}
	result.Sheets = outcomes

	// =========================================================================
	// STEP 3: COLLECT
	// =========================================================================

	for _, outcome := range outcomes {
		result.Stats.RowsSkipped += outcome.SkippedRows
		if outcome.Status != sheetparser.StatusParsed {
			p.logger.WarnContext(ctx, "sheet skipped",
				"file", filepath.Base(path),
				"sheet", outcome.SheetName,
				"reason", outcome.Status.String())
			continue
		}
		result.Stats.SheetsParsed++
		result.Stats.RecordsExtracted += len(outcome.Records)
		p.logger.DebugContext(ctx, "sheet parsed",
			"file", filepath.Base(path),
			"sheet", outcome.SheetName,
			"header_row", outcome.HeaderRow,
			"date_columns", len(outcome.DateColumns),
			"records", len(outcome.Records),
			"skipped_rows", outcome.SkippedRows)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// ParseGrids parses grids concurrently. Outcomes are in grid order. An
// error is returned only when ctx is cancelled.
func (p *Pipeline) ParseGrids(ctx context.Context, grids []types.Grid) ([]sheetparser.Outcome, error) {
	outcomes := make([]sheetparser.Outcome, len(grids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrency)

	for i, grid := range grids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.parser.ParseSheet(grid, grid.Name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// RunAll ingests files concurrently and returns results in input order.
func (p *Pipeline) RunAll(ctx context.Context, paths []string) []Result {
	type indexed struct {
		index  int
		result Result
	}

	var wg sync.WaitGroup
	resultsChan := make(chan indexed, len(paths))

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			resultsChan <- indexed{index: i, result: p.Run(ctx, path)}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, len(paths))
	for r := range resultsChan {
		results[r.index] = r.result
	}
	return results
}

// =============================================================================
// LOADING
// =============================================================================

// LoadGrids reads a workbook or CSV export into grids by file extension.
func LoadGrids(path string, csvSettings config.CSVSettings) ([]types.Grid, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case xlsxparser.IsWorkbook(path), ext == ".xls":
		grids, err := xlsxparser.LoadWorkbook(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load workbook: %w", err)
		}
		return grids, nil

	case ext == ".csv":
		grid, err := csvparser.LoadGrid(path, csvSettings)
		if err != nil {
			return nil, fmt.Errorf("failed to load CSV: %w", err)
		}
		return []types.Grid{grid}, nil

	default:
		return nil, fmt.Errorf("%s: %w", path, xlsxparser.ErrUnsupportedFormat)
	}
}

// =============================================================================
// COLLECTION
// =============================================================================

// CollectRecords merges the records of every successful result, in input
// order. It returns ErrNoAttendanceData when there are none.
func CollectRecords(results []Result) ([]types.AttendanceRecord, error) {
	var records []types.AttendanceRecord
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		records = append(records, r.Records()...)
	}

	if len(records) == 0 {
		return nil, ErrNoAttendanceData
	}
	return records, nil
}

// Totals sums the statistics of results.
func Totals(results []Result) ProcessingStats {
	var total ProcessingStats
	for _, r := range results {
		total.SheetsRead += r.Stats.SheetsRead
		total.SheetsParsed += r.Stats.SheetsParsed
		total.RecordsExtracted += r.Stats.RecordsExtracted
		total.RowsSkipped += r.Stats.RowsSkipped
		total.ProcessingTime += r.Stats.ProcessingTime
	}
	return total
}
