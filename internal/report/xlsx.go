package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// Sheet names of the workbook report.
const (
	SummarySheet  = "Summary"
	CombinedSheet = "Combined"
)

// WriteXLSX saves the summary tables as a workbook. The Combined sheet is
// written only when combined is non-nil.
func WriteXLSX(path string, rows []types.SummaryRow, combined []types.CombinedSummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	summaryRecords := make([][]any, len(rows))
	for i, row := range rows {
		summaryRecords[i] = typedRecord(row.Process, row.EmployeeID, row.EmployeeName, row.SheetName, row.Counts, row.TotalWorkingDays)
	}
	if err := writeTable(f, SummarySheet, SummaryHeaders(), summaryRecords, headerStyle); err != nil {
		return err
	}

	if combined != nil {
		if _, err := f.NewSheet(CombinedSheet); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		combinedRecords := make([][]any, len(combined))
		for i, row := range combined {
			combinedRecords[i] = typedRecord(row.Process, row.EmployeeID, row.EmployeeName, row.SheetsDisplay(), row.Counts, row.TotalWorkingDays)
		}
		if err := writeTable(f, CombinedSheet, CombinedHeaders(), combinedRecords, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// typedRecord keeps counts numeric so the workbook can sum them.
func typedRecord(process, id, name, sheet string, counts types.CategoryCounts, total float64) []any {
	fields := []any{process, id, name, sheet}
	for _, c := range types.CountedCategories {
		fields = append(fields, counts.Get(c))
	}
	return append(fields, total)
}

func writeTable(f *excelize.File, sheet string, header []string, records [][]any, headerStyle int) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "E", lastCol, 12); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
