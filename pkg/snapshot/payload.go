package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ErrUnavailable indicates that the upstream source reported a failure
// instead of a snapshot. Callers render their placeholder state in that case;
// the aggregation engine is not invoked.
var ErrUnavailable = fmt.Errorf("snapshot is not available")

// Wire format of the published snapshot feed. The top-level ok flag signals
// upstream extraction failures.
type payload struct {
	Ok         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	SourceFile sourceFileDTO `json:"sourceFile"`
	Meta       metaDTO       `json:"meta"`
	WeekCols   []weekColDTO  `json:"weekCols"`
	Tasks      []taskDTO     `json:"tasks"`
}

type sourceFileDTO struct {
	Name       string `json:"name"`
	UpdatedIso string `json:"updatedIso"`
}

type metaDTO struct {
	SheetName      string `json:"sheetName"`
	ExtractedAtIso string `json:"extractedAtIso"`
}

type weekColDTO struct {
	MonthName   string `json:"monthName"`
	WeekOfMonth int    `json:"weekOfMonth"`
}

type taskDTO struct {
	Label string    `json:"label"`
	Cells []cellDTO `json:"cells"`
}

type cellDTO struct {
	Bg          string `json:"bg"`
	Text        string `json:"text,omitempty"`
	Date        string `json:"date"`
	MonthName   string `json:"monthName"`
	WeekOfMonth int    `json:"weekOfMonth"`
}

// Decode reads one snapshot payload. A payload with ok=false decodes into
// ErrUnavailable; missing task or column lists decode as empty, never as an
// error.
func Decode(r io.Reader) (Snapshot, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot payload: %w", err)
	}
	if !p.Ok {
		if p.Error != "" {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrUnavailable, p.Error)
		}
		return Snapshot{}, ErrUnavailable
	}

	tasks := make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		slots := make([]Slot, 0, len(t.Cells))
		for _, c := range t.Cells {
			slots = append(slots, Slot{
				FillColor:   c.Bg,
				Text:        c.Text,
				Date:        c.Date,
				MonthName:   c.MonthName,
				WeekOfMonth: c.WeekOfMonth,
			})
		}
		tasks = append(tasks, Task{Label: t.Label, Slots: slots})
	}

	weekCols := make([]WeekColumn, 0, len(p.WeekCols))
	for _, w := range p.WeekCols {
		weekCols = append(weekCols, WeekColumn{MonthName: w.MonthName, WeekOfMonth: w.WeekOfMonth})
	}

	return Snapshot{
		Tasks:       tasks,
		WeekColumns: weekCols,
		Meta: Meta{
			SheetName:       p.Meta.SheetName,
			SourceName:      p.SourceFile.Name,
			SourceUpdatedAt: parseTimestamp(p.SourceFile.UpdatedIso),
			ExtractedAt:     parseTimestamp(p.Meta.ExtractedAtIso),
		},
	}, nil
}

// parseTimestamp tolerates absent or malformed timestamps; metadata is
// informational only.
func parseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}
	}
	return t
}
