// =============================================================================
// Attendance Summary - Summarize Command
// =============================================================================
//
// This file defines the 'summarize' command, the main command of the tool.
//
// COMMAND USAGE:
//   attendance summarize --input PATH [flags]
//
// FLAGS:
//   --input      : Workbook, CSV export, or a directory of them (required)
//   --from/--to  : Date range, YYYY-MM-DD (default: every date found)
//   --process    : Keep only this process
//   --employee   : Keep only this employee name
//   --sheet      : Keep only this sheet
//   --combined   : Also combine each employee's rows across sheets
//   --format     : Report files: csv, xlsx or both (overrides config)
//   --output     : Report directory (overrides config)
//   --stdout     : Write the CSV report to stdout instead of files
//
// PROCESSING PIPELINE:
//   1. Discover input files
//   2. Ingest every file concurrently (load grids, parse sheets)
//   3. Resolve and check the date range
//   4. Summarize, filter and optionally combine
//   5. Print tables, statistics and data quality warnings
//   6. Write report files and the run summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/ingest"
	"github.com/ginjaninja78/attendance-summary/internal/logging"
	"github.com/ginjaninja78/attendance-summary/internal/report"
	"github.com/ginjaninja78/attendance-summary/internal/summary"
	"github.com/ginjaninja78/attendance-summary/internal/types"
	"github.com/ginjaninja78/attendance-summary/internal/validation"
	"github.com/ginjaninja78/attendance-summary/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// summarizeOptions holds the flags of the summarize command.
type summarizeOptions struct {
	Input    string
	From     string
	To       string
	Filter   summary.Filter
	Combined bool
	Format   string
	Output   string
	Stdout   bool
}

var summarizeOpts summarizeOptions

// =============================================================================
// SUMMARIZE COMMAND DEFINITION
// =============================================================================

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize attendance over a date range",
	Long: `The summarize command reads every sheet of the input files, finds the
employees and their daily status codes, and counts the days per category for
each employee within the date range.

Files are read concurrently. A file that cannot be read is reported and the
others are still summarized. Sheets without a recognizable date header are
skipped with a warning.

Status codes that are not recognized are left out of the totals and listed
as data quality warnings.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd.Context(), appConfig, appLogger, summarizeOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	flags := summarizeCmd.Flags()
	flags.StringVarP(&summarizeOpts.Input, "input", "i", "", "Workbook, CSV export, or directory of them")
	flags.StringVar(&summarizeOpts.From, "from", "", "Start date, YYYY-MM-DD (default: earliest date found)")
	flags.StringVar(&summarizeOpts.To, "to", "", "End date, YYYY-MM-DD (default: latest date found)")
	flags.StringVar(&summarizeOpts.Filter.Process, "process", "", "Keep only this process")
	flags.StringVar(&summarizeOpts.Filter.EmployeeName, "employee", "", "Keep only this employee name")
	flags.StringVar(&summarizeOpts.Filter.Sheet, "sheet", "", "Keep only this sheet")
	flags.BoolVar(&summarizeOpts.Combined, "combined", false, "Also combine each employee's rows across sheets")
	flags.StringVar(&summarizeOpts.Format, "format", "", "Report files: csv, xlsx or both (default from config)")
	flags.StringVarP(&summarizeOpts.Output, "output", "o", "", "Report directory (default from config)")
	flags.BoolVar(&summarizeOpts.Stdout, "stdout", false, "Write the CSV report to stdout instead of files")

	summarizeCmd.MarkFlagRequired("input")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runSummarize runs the summarize pipeline. Tables go to out; progress and
// warnings go to errOut.
func runSummarize(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts summarizeOptions, out, errOut io.Writer) error {
	startTime := time.Now()
	if logger == nil {
		logger = logging.Discard()
	}

	format := cfg.Report.Format
	if opts.Format != "" {
		format = strings.ToLower(opts.Format)
	}
	switch format {
	case "csv", "xlsx", "both":
	default:
		return fmt.Errorf("invalid format %q (must be csv, xlsx or both)", format)
	}

	outputDir := cfg.Report.OutputDir
	if opts.Output != "" {
		outputDir = opts.Output
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files, err := utils.ResolveInputs(opts.Input)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "input files found", "count", len(files))

	// =========================================================================
	// STEP 2: INGEST FILES CONCURRENTLY
	// =========================================================================

	results := ingest.New(cfg, logger).RunAll(ctx, files)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}

	runSummary := utils.ProcessingSummary{
		RunID:      logging.RunID(ctx),
		StartTime:  startTime,
		TotalFiles: len(files),
	}

	for _, result := range results {
		if result.Error != nil {
			runSummary.FailedFiles++
			runSummary.FailedFilesList = append(runSummary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FilePath,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Fprintf(errOut, "  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
			continue
		}
		runSummary.SuccessfulFiles++
		runSummary.ProcessedFiles = append(runSummary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:    result.FilePath,
			Sheets:       result.Stats.SheetsRead,
			SheetsParsed: result.Stats.SheetsParsed,
			Records:      result.Stats.RecordsExtracted,
			ProcessTime:  result.Stats.ProcessingTime,
		})
		fmt.Fprintf(errOut, "  ✓ %s: %d of %d sheet(s), %d employee record(s)\n",
			filepath.Base(result.FilePath), result.Stats.SheetsParsed, result.Stats.SheetsRead, result.Stats.RecordsExtracted)
	}

	totals := ingest.Totals(results)
	runSummary.SheetsRead = totals.SheetsRead
	runSummary.SheetsParsed = totals.SheetsParsed
	runSummary.Records = totals.RecordsExtracted

	records, err := ingest.CollectRecords(results)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: RESOLVE THE DATE RANGE
	// =========================================================================

	start, end, err := resolveRange(records, opts.From, opts.To)
	if err != nil {
		return err
	}
	runSummary.From = start.Format(types.DateLayout)
	runSummary.To = end.Format(types.DateLayout)

	// =========================================================================
	// STEP 4: SUMMARIZE
	// =========================================================================

	rows := summary.Summarize(records, start, end)
	filtered := opts.Filter.Apply(rows)

	if !opts.Filter.IsZero() {
		choices := summary.DistinctValues(rows)
		logger.DebugContext(ctx, "filter choices",
			"processes", choices.Processes,
			"employees", len(choices.Employees),
			"sheets", choices.Sheets)
		if len(filtered) == 0 {
			logger.WarnContext(ctx, "filter matched no rows",
				"process", opts.Filter.Process,
				"employee", opts.Filter.EmployeeName,
				"sheet", opts.Filter.Sheet)
		}
	}

	var combined []types.CombinedSummaryRow
	if opts.Combined {
		combined = opts.Filter.ApplyCombined(summary.Combine(rows))
	}

	logger.InfoContext(ctx, "summary computed",
		"from", runSummary.From,
		"to", runSummary.To,
		"rows", len(filtered),
		"combined_rows", len(combined))

	audit := validation.AuditStatusCodes(records, start, end)
	audit.Merge(validation.AuditIdentity(records))
	runSummary.DataQualityIssues = len(audit.Errors)

	// =========================================================================
	// STEP 5: PRINT OR STREAM
	// =========================================================================

	if opts.Stdout {
		if opts.Combined {
			return report.WriteCombinedCSV(out, combined, cfg.ReportCSV())
		}
		return report.WriteSummaryCSV(out, filtered, cfg.ReportCSV())
	}

	fmt.Fprintf(out, "Attendance %s to %s\n\n", runSummary.From, runSummary.To)
	if err := report.PrintSummaryTable(out, filtered); err != nil {
		return err
	}
	fmt.Fprintln(out)
	report.PrintStatistics(out, summary.ComputeStatistics(filtered))

	if opts.Combined {
		fmt.Fprintln(out, "\nCombined across sheets")
		fmt.Fprintln(out)
		if err := report.PrintCombinedTable(out, combined); err != nil {
			return err
		}
		fmt.Fprintln(out)
		report.PrintStatistics(out, summary.ComputeCombinedStatistics(combined))
	}

	if len(audit.Errors) > 0 {
		fmt.Fprintln(errOut)
		fmt.Fprint(errOut, validation.FormatErrors(audit.Errors))
	}

	// =========================================================================
	// STEP 6: WRITE REPORTS
	// =========================================================================

	if err := utils.EnsureDirectory(outputDir); err != nil {
		return err
	}

	written, err := writeReports(cfg.Report, outputDir, format, runSummary.From, runSummary.To, filtered, combined, opts.Combined)
	if err != nil {
		return err
	}

	if cfg.Report.WriteQualityLog && len(audit.Errors) > 0 {
		logPath := filepath.Join(outputDir, fmt.Sprintf("data_quality_%s_to_%s.log", runSummary.From, runSummary.To))
		if err := validation.WriteErrorLog(audit.Errors, logPath); err != nil {
			return err
		}
		written = append(written, logPath)
	}

	runSummary.ReportFiles = written
	runSummary.EndTime = time.Now()
	summaryPath, err := utils.WriteSummaryLog(runSummary, outputDir)
	if err != nil {
		logger.WarnContext(ctx, "run summary not written", "error", err)
	}

	fmt.Fprintln(out)
	for _, path := range written {
		fmt.Fprintf(out, "Report written: %s\n", path)
	}
	logger.InfoContext(ctx, "run complete",
		"reports", len(written),
		"summary", summaryPath,
		"elapsed", time.Since(startTime).String())

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveRange parses the --from/--to values. A missing bound defaults to
// the earliest or latest date found in records.
func resolveRange(records []types.AttendanceRecord, from, to string) (time.Time, time.Time, error) {
	first, last, ok := summary.DateSpan(records)
	if !ok && (from == "" || to == "") {
		return time.Time{}, time.Time{}, ingest.ErrNoAttendanceData
	}

	start, end := first, last
	var err error
	if from != "" {
		if start, err = time.Parse(types.DateLayout, from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", from)
		}
	}
	if to != "" {
		if end, err = time.Parse(types.DateLayout, to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", to)
		}
	}

	if err := validation.ValidateDateRange(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// writeReports writes the report files for format and returns their paths.
func writeReports(cfg config.ReportConfig, dir, format, from, to string, rows []types.SummaryRow, combined []types.CombinedSummaryRow, withCombined bool) ([]string, error) {
	var written []string

	name := func(kind, ext string) string {
		nameFormat := cfg.FileNameFormat
		if kind == "combined" && !strings.Contains(nameFormat, "{kind}") {
			nameFormat += "_combined"
		}
		params := map[string]string{"start": from, "end": to, "kind": kind}
		return filepath.Join(dir, utils.GenerateOutputFileName(nameFormat, params, ext))
	}

	csvSettings := config.CSVSettings{Delimiter: cfg.Delimiter}

	if format == "csv" || format == "both" {
		path := name("summary", ".csv")
		if err := report.SaveSummaryCSV(path, rows, csvSettings); err != nil {
			return written, err
		}
		written = append(written, path)

		if withCombined {
			path := name("combined", ".csv")
			if err := report.SaveCombinedCSV(path, combined, csvSettings); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}

	if format == "xlsx" || format == "both" {
		path := name("summary", ".xlsx")
		var combinedSheet []types.CombinedSummaryRow
		if withCombined {
			combinedSheet = combined
			if combinedSheet == nil {
				combinedSheet = []types.CombinedSummaryRow{}
			}
		}
		if err := report.WriteXLSX(path, rows, combinedSheet); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}
