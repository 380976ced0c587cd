package dashboard

import (
	"strings"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/pkg/snapshot"
)

// ColorClassifier maps fill colors to semantic categories using the
// configured equivalence sets. Matching is data-driven because spreadsheet
// fill colors vary by source; unknown colors degrade to neutral rather than
// failing.
type ColorClassifier struct {
	completed map[string]struct{}
	overdue   map[string]struct{}
	white     map[string]struct{}
}

func NewColorClassifier(cfg config.Dashboard) *ColorClassifier {
	c := &ColorClassifier{
		completed: normalizedSet(cfg.CompletedColors),
		overdue:   normalizedSet(cfg.OverdueColors),
		white:     normalizedSet(cfg.WhiteColors),
	}
	// An absent color is always white-equivalent.
	c.white[""] = struct{}{}
	return c
}

// Classify resolves a fill color. Completed is checked before overdue so a
// color misconfigured into both sets resolves to completed.
func (c *ColorClassifier) Classify(color string) Classification {
	h := normalizeColor(color)
	if _, ok := c.completed[h]; ok {
		return ClassCompleted
	}
	if _, ok := c.overdue[h]; ok {
		return ClassOverdue
	}
	return ClassNeutral
}

// IsMarked reports whether the slot represents an actually-planned unit of
// work. A slot is marked iff it carries text or a non-white fill color; the
// true default cell (no color, no text) is invisible to all aggregation.
func (c *ColorClassifier) IsMarked(slot snapshot.Slot) bool {
	if strings.TrimSpace(slot.Text) != "" {
		return true
	}
	_, whiteEquivalent := c.white[normalizeColor(slot.FillColor)]
	return !whiteEquivalent
}

func normalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

func normalizedSet(colors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(colors))
	for _, color := range colors {
		set[normalizeColor(color)] = struct{}{}
	}
	return set
}
