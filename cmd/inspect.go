// =============================================================================
// Attendance Summary - Inspect Command
// =============================================================================
//
// COMMAND USAGE:
//   attendance inspect --input PATH
//
// Prints one line per sheet showing how it was parsed: status, header row,
// date columns found, records extracted and any unrecognized status codes.
// Useful when a sheet is missing from a summary.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/ingest"
	"github.com/ginjaninja78/attendance-summary/internal/report"
	"github.com/ginjaninja78/attendance-summary/internal/sheetparser"
	"github.com/ginjaninja78/attendance-summary/internal/summary"
	"github.com/ginjaninja78/attendance-summary/internal/validation"
	"github.com/ginjaninja78/attendance-summary/pkg/utils"
)

var inspectInput string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how every sheet of the input files was parsed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.Context(), appConfig, appLogger, inspectInput, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "Workbook, CSV export, or directory of them")
	inspectCmd.MarkFlagRequired("input")
}

// inspectHeaders are the columns of the inspect table.
var inspectHeaders = []string{"File", "Sheet", "Status", "Header Row", "Date Columns", "Dates", "Records", "Skipped Rows", "Unrecognized Codes"}

func runInspect(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string, out io.Writer) error {
	files, err := utils.ResolveInputs(input)
	if err != nil {
		return err
	}

	results := ingest.New(cfg, logger).RunAll(ctx, files)

	var table [][]string
	for _, result := range results {
		file := filepath.Base(result.FilePath)
		if result.Error != nil {
			table = append(table, []string{file, "-", "error: " + result.Error.Error(), "", "", "", "", "", ""})
			continue
		}
		for _, outcome := range result.Sheets {
			table = append(table, inspectRow(file, outcome))
		}
	}

	if err := report.PrintTable(out, inspectHeaders, table); err != nil {
		return err
	}

	totals := ingest.Totals(results)
	fmt.Fprintf(out, "\nSheets: %d read, %d parsed | Employee records: %d\n",
		totals.SheetsRead, totals.SheetsParsed, totals.RecordsExtracted)
	return nil
}

// inspectRow describes one sheet. Header rows are shown 1-based, as in a
// spreadsheet.
func inspectRow(file string, outcome sheetparser.Outcome) []string {
	headerRow := "-"
	if outcome.HeaderRow >= 0 {
		headerRow = strconv.Itoa(outcome.HeaderRow + 1)
	}

	dates := "-"
	if n := len(outcome.DateColumns); n > 0 {
		dates = outcome.DateColumns[0].Key + " .. " + outcome.DateColumns[n-1].Key
	}

	return []string{
		file,
		outcome.SheetName,
		outcome.Status.String(),
		headerRow,
		strconv.Itoa(len(outcome.DateColumns)),
		dates,
		strconv.Itoa(len(outcome.Records)),
		strconv.Itoa(outcome.SkippedRows),
		unrecognizedCodes(outcome),
	}
}

// unrecognizedCodes lists the sheet's unrecognized status codes with their
// counts, e.g. "XYZ x3, ? x1".
func unrecognizedCodes(outcome sheetparser.Outcome) string {
	first, last, ok := summary.DateSpan(outcome.Records)
	if !ok {
		return ""
	}

	audit := validation.AuditStatusCodes(outcome.Records, first, last)
	sort.SliceStable(audit.Errors, func(i, j int) bool {
		return audit.Errors[i].Count > audit.Errors[j].Count
	})

	parts := make([]string, len(audit.Errors))
	for i, finding := range audit.Errors {
		parts[i] = fmt.Sprintf("%s x%d", finding.Value, finding.Count)
	}
	return strings.Join(parts, ", ")
}
