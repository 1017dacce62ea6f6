package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

func sampleRows() []types.SummaryRow {
	return []types.SummaryRow{
		summaryRow("Ops", "E1", "Alice", "September", 10, 10),
		summaryRow("Ops", "E2", "Bob", "September", 8, 8.5),
		summaryRow("Sales", "E3", "Carol", "October", 6, 6),
		summaryRow("Ops", "E1", "Alice", "October", 4, 4),
	}
}

func TestFilter_Apply(t *testing.T) {
	rows := sampleRows()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter keeps all", Filter{}, []string{"Alice", "Bob", "Carol", "Alice"}},
		{"process", Filter{Process: "Ops"}, []string{"Alice", "Bob", "Alice"}},
		{"employee", Filter{EmployeeName: "Alice"}, []string{"Alice", "Alice"}},
		{"sheet", Filter{Sheet: "October"}, []string{"Carol", "Alice"}},
		{"all criteria", Filter{Process: "Ops", EmployeeName: "Alice", Sheet: "October"}, []string{"Alice"}},
		{"no match", Filter{Process: "HR"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, row := range tt.filter.Apply(rows) {
				got = append(got, row.EmployeeName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_ApplyCombinedMatchesContributingSheet(t *testing.T) {
	combined := Combine(sampleRows())

	got := Filter{Sheet: "October"}.ApplyCombined(combined)

	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].EmployeeName)
	assert.Equal(t, []string{"October", "September"}, got[0].ContributingSheets)
	assert.Equal(t, "Carol", got[1].EmployeeName)
}

func TestFilter_IsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Sheet: "x"}.IsZero())
}

func TestDistinctValues(t *testing.T) {
	choices := DistinctValues(sampleRows())

	assert.Equal(t, []string{"Ops", "Sales"}, choices.Processes)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, choices.Employees)
	assert.Equal(t, []string{"October", "September"}, choices.Sheets)
}

func TestComputeStatistics(t *testing.T) {
	rows := sampleRows()
	rows[0].Counts.PlannedLeave = 2
	rows[2].Counts.UnplannedLeave = 3

	stats := ComputeStatistics(rows)

	assert.Equal(t, 4, stats.Employees)
	assert.InDelta(t, 7.0, stats.AveragePresent, 1e-9)
	assert.Equal(t, 2, stats.TotalPlannedLeave)
	assert.Equal(t, 3, stats.TotalUnplannedLeave)
}

func TestComputeStatistics_Empty(t *testing.T) {
	assert.Equal(t, Statistics{}, ComputeStatistics(nil))
}

func TestComputeCombinedStatistics(t *testing.T) {
	stats := ComputeCombinedStatistics(Combine(sampleRows()))

	assert.Equal(t, 3, stats.Employees)
	assert.InDelta(t, 28.0/3.0, stats.AveragePresent, 1e-9)
}
