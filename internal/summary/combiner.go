// =============================================================================
// Attendance Summary - Cross-Month Combiner
// =============================================================================
//
// Monthly sheets produce one SummaryRow per employee per sheet. The combiner
// folds those rows into one row per employee, keyed by
// (process, employee id, employee name), so a date range spanning several
// months reads as a single total.
//
// =============================================================================

package summary

import (
	"sort"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// Combine groups rows by employee and sums their counts.
//
// RETURNS:
//   - One CombinedSummaryRow per distinct (process, id, name), ordered by
//     that key. ContributingSheets is deduplicated and sorted. The result
//     does not depend on the order of rows.
func Combine(rows []types.SummaryRow) []types.CombinedSummaryRow {
	groups := make(map[types.EmployeeKey]*types.CombinedSummaryRow)
	sheets := make(map[types.EmployeeKey]map[string]struct{})

	for _, row := range rows {
		key := row.Key()

		combined, exists := groups[key]
		if !exists {
			combined = &types.CombinedSummaryRow{
				Process:      row.Process,
				EmployeeID:   row.EmployeeID,
				EmployeeName: row.EmployeeName,
			}
			groups[key] = combined
			sheets[key] = make(map[string]struct{})
		}

		combined.Counts = combined.Counts.Add(row.Counts)
		combined.TotalWorkingDays += row.TotalWorkingDays
		sheets[key][row.SheetName] = struct{}{}
	}

	keys := make([]types.EmployeeKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	result := make([]types.CombinedSummaryRow, 0, len(keys))
	for _, key := range keys {
		combined := groups[key]
		combined.ContributingSheets = sortedSet(sheets[key])
		result = append(result, *combined)
	}

	return result
}

// lessKey orders employee keys by process, then id, then name.
func lessKey(a, b types.EmployeeKey) bool {
	if a.Process != b.Process {
		return a.Process < b.Process
	}
	if a.EmployeeID != b.EmployeeID {
		return a.EmployeeID < b.EmployeeID
	}
	return a.EmployeeName < b.EmployeeName
}

// sortedSet returns the members of set in ascending order.
func sortedSet(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
