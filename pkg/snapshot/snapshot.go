package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one scheduled cell for one task in one week column: the atomic
// unit the dashboard classifies. A slot with no fill color (or a
// white-equivalent one) and no text is an empty placeholder and never
// contributes to any count.
type Slot struct {
	FillColor   string
	Text        string
	Date        string // ISO YYYY-MM-DD, may be empty
	MonthName   string
	WeekOfMonth int
}

// PeriodLabel is the human-readable period this slot belongs to, e.g. "March W2".
func (s Slot) PeriodLabel() string {
	return fmt.Sprintf("%s W%d", strings.TrimSpace(s.MonthName), s.WeekOfMonth)
}

// Task is a named unit of recurring compliance work. Slots are ordered
// chronologically by period, as extracted from the tracker.
type Task struct {
	Label string
	Slots []Slot
}

// WeekColumn is one period column header of the tracker grid, used only for
// display ordering.
type WeekColumn struct {
	MonthName   string
	WeekOfMonth int
}

// Meta describes where and when the snapshot was extracted. It is opaque to
// the aggregation engine and passed through to the output unchanged.
type Meta struct {
	SheetName       string
	SourceName      string
	SourceUpdatedAt time.Time
	ExtractedAt     time.Time
}

// Snapshot is one full extraction of the compliance tracker. The engine only
// reads it, never mutates it.
type Snapshot struct {
	Id          string
	Tasks       []Task
	WeekColumns []WeekColumn
	Meta        Meta
}
