package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"empty", EmptyCell(), ""},
		{"text", TextCell("Ops"), "Ops"},
		{"integer number", NumberCell(101), "101"},
		{"fractional number", NumberCell(2.5), "2.5"},
		{"date", DateCell(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)), "2025-09-01"},
		{"date with time", DateCell(time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)), "2025-09-01 08:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.String())
		})
	}
}

func TestCellIsEmpty(t *testing.T) {
	assert.True(t, EmptyCell().IsEmpty())
	assert.True(t, TextCell("   ").IsEmpty())
	assert.False(t, TextCell("W").IsEmpty())
	assert.False(t, NumberCell(0).IsEmpty())
}

func TestGridCellOutOfRange(t *testing.T) {
	g := Grid{Name: "Sheet1", Rows: [][]Cell{{TextCell("a")}, {}}}

	assert.Equal(t, "a", g.Cell(0, 0).String())
	assert.Equal(t, CellEmpty, g.Cell(0, 5).Kind)
	assert.Equal(t, CellEmpty, g.Cell(1, 0).Kind)
	assert.Equal(t, CellEmpty, g.Cell(-1, 0).Kind)
	assert.Equal(t, CellEmpty, g.Cell(9, 0).Kind)
	assert.Equal(t, 0, g.RowWidth(1))
}

func TestCategoryCounts(t *testing.T) {
	var a CategoryCounts
	a.Increment(Present)
	a.Increment(Present)
	a.Increment(HalfDay)
	a.Increment(Unclassified)

	assert.Equal(t, 2, a.Get(Present))
	assert.Equal(t, 1, a.Get(HalfDay))
	assert.Equal(t, 0, a.Get(Unclassified))

	b := CategoryCounts{Present: 3, Off: 1}
	sum := a.Add(b)
	assert.Equal(t, 5, sum.Present)
	assert.Equal(t, 1, sum.Off)
	assert.Equal(t, 1, sum.HalfDay)
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "Compensatory Off", CompensatoryOff.String())
	assert.Equal(t, "Half Day", HalfDay.String())
	assert.Len(t, CountedCategories, 10)
}
