package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gsheets "google.golang.org/api/sheets/v4"
)

func textCell(value string) *gsheets.CellData {
	return &gsheets.CellData{FormattedValue: value}
}

func coloredCell(value string, red, green, blue float64) *gsheets.CellData {
	return &gsheets.CellData{
		FormattedValue: value,
		EffectiveFormat: &gsheets.CellFormat{
			BackgroundColor: &gsheets.Color{Red: red, Green: green, Blue: blue},
		},
	}
}

func TestExtractSnapshot(t *testing.T) {
	// given: three header rows, then task rows
	rows := []*gsheets.RowData{
		{Values: []*gsheets.CellData{textCell("Task"), textCell("March"), textCell("March")}},
		{Values: []*gsheets.CellData{textCell(""), textCell("1"), textCell("2")}},
		{Values: []*gsheets.CellData{textCell(""), textCell("2026-03-02"), textCell("2026-03-09")}},
		{Values: []*gsheets.CellData{textCell("Fire drill"), coloredCell("", 0, 1, 0), coloredCell("", 1, 0, 0)}},
		{Values: []*gsheets.CellData{textCell(""), textCell(""), textCell("")}}, // blank row, skipped
	}

	// when
	snap := extractSnapshot(rows)

	// then
	assert.Len(t, snap.WeekColumns, 2)
	assert.Equal(t, "March", snap.WeekColumns[0].MonthName)
	assert.Equal(t, 2, snap.WeekColumns[1].WeekOfMonth)
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Fire drill", snap.Tasks[0].Label)
	assert.Equal(t, "#00ff00", snap.Tasks[0].Slots[0].FillColor)
	assert.Equal(t, "#ff0000", snap.Tasks[0].Slots[1].FillColor)
	assert.Equal(t, "2026-03-09", snap.Tasks[0].Slots[1].Date)
	assert.Equal(t, 2, snap.Tasks[0].Slots[1].WeekOfMonth)
}

func TestExtractSnapshot_tooFewRows(t *testing.T) {
	snap := extractSnapshot([]*gsheets.RowData{{Values: []*gsheets.CellData{textCell("Task")}}})
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.WeekColumns)
}

func TestCellBackground_unformattedCellIsWhiteEquivalent(t *testing.T) {
	cells := []*gsheets.CellData{textCell("note")}
	assert.Equal(t, "", cellBackground(cells, 0))
	assert.Equal(t, "", cellBackground(cells, 5))
}
