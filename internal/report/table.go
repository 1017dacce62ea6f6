package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ginjaninja78/attendance-summary/internal/summary"
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// headerColor matches the header fill of the XLSX report.
const headerColor = "#4F81BD"

// PrintSummaryTable writes rows as a bordered text table.
func PrintSummaryTable(w io.Writer, rows []types.SummaryRow) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = SummaryRecord(row)
	}
	return PrintTable(w, SummaryHeaders(), records)
}

// PrintCombinedTable writes combined rows as a bordered text table.
func PrintCombinedTable(w io.Writer, rows []types.CombinedSummaryRow) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = CombinedRecord(row)
	}
	return PrintTable(w, CombinedHeaders(), records)
}

// PrintStatistics writes the headline numbers under a table.
func PrintStatistics(w io.Writer, stats summary.Statistics) error {
	_, err := fmt.Fprintf(w,
		"Employees: %d | Avg present days: %.1f | Planned leave: %d | Unplanned leave: %d\n",
		stats.Employees, stats.AveragePresent, stats.TotalPlannedLeave, stats.TotalUnplannedLeave)
	return err
}

// PrintTable writes header and records as a bordered table. Colors are
// only emitted when w is a terminal. Numeric cells are right-aligned.
func PrintTable(w io.Writer, header []string, records [][]string) error {
	re := lipgloss.NewRenderer(w)

	headerStyle := re.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(headerColor)).
		Padding(0, 1).
		Align(lipgloss.Center)
	cellStyle := re.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color(headerColor))).
		Headers(header...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(records) && col < len(records[row]) && isNumber(records[row][col]) {
				return numberStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
