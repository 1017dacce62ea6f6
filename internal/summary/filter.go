package summary

import (
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// =============================================================================
// POST-FILTERS
// =============================================================================

// Filter narrows summary rows by exact match. An empty field matches
// everything.
type Filter struct {
	Process      string
	EmployeeName string
	Sheet        string
}

// IsZero reports whether the filter matches every row.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the rows matching the filter, preserving order.
func (f Filter) Apply(rows []types.SummaryRow) []types.SummaryRow {
	filtered := make([]types.SummaryRow, 0, len(rows))
	for _, row := range rows {
		if f.match(row.Process, row.EmployeeName) && (f.Sheet == "" || row.SheetName == f.Sheet) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// ApplyCombined returns the combined rows matching the filter. The sheet
// criterion matches when the sheet is one of the contributing sheets.
func (f Filter) ApplyCombined(rows []types.CombinedSummaryRow) []types.CombinedSummaryRow {
	filtered := make([]types.CombinedSummaryRow, 0, len(rows))
	for _, row := range rows {
		if f.match(row.Process, row.EmployeeName) && (f.Sheet == "" || contains(row.ContributingSheets, f.Sheet)) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (f Filter) match(process, name string) bool {
	return (f.Process == "" || process == f.Process) &&
		(f.EmployeeName == "" || name == f.EmployeeName)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// FilterChoices lists the distinct values available to each filter.
type FilterChoices struct {
	Processes []string
	Employees []string
	Sheets    []string
}

// DistinctValues collects the sorted distinct process, employee and sheet
// values of rows.
func DistinctValues(rows []types.SummaryRow) FilterChoices {
	processes := make(map[string]struct{})
	employees := make(map[string]struct{})
	sheets := make(map[string]struct{})

	for _, row := range rows {
		processes[row.Process] = struct{}{}
		employees[row.EmployeeName] = struct{}{}
		sheets[row.SheetName] = struct{}{}
	}

	return FilterChoices{
		Processes: sortedSet(processes),
		Employees: sortedSet(employees),
		Sheets:    sortedSet(sheets),
	}
}

// =============================================================================
// STATISTICS
// =============================================================================

// Statistics are the headline numbers shown under a report.
type Statistics struct {
	Employees           int
	AveragePresent      float64
	TotalPlannedLeave   int
	TotalUnplannedLeave int
}

// ComputeStatistics derives headline numbers from summary rows. Each row
// counts as one employee, matching the per-sheet table it is computed from.
func ComputeStatistics(rows []types.SummaryRow) Statistics {
	counts := make([]types.CategoryCounts, len(rows))
	for i, row := range rows {
		counts[i] = row.Counts
	}
	return statistics(counts)
}

// ComputeCombinedStatistics derives headline numbers from combined rows.
func ComputeCombinedStatistics(rows []types.CombinedSummaryRow) Statistics {
	counts := make([]types.CategoryCounts, len(rows))
	for i, row := range rows {
		counts[i] = row.Counts
	}
	return statistics(counts)
}

func statistics(counts []types.CategoryCounts) Statistics {
	stats := Statistics{Employees: len(counts)}
	if len(counts) == 0 {
		return stats
	}

	present := 0
	for _, c := range counts {
		present += c.Present
		stats.TotalPlannedLeave += c.PlannedLeave
		stats.TotalUnplannedLeave += c.UnplannedLeave
	}
	stats.AveragePresent = float64(present) / float64(len(counts))

	return stats
}
