package dashboard

import (
	"github.com/complyview/complyview/pkg/snapshot"
)

// Classification is the semantic category of a slot fill color.
type Classification int

const (
	// ClassNeutral covers everything outside the configured equivalence sets,
	// including absent colors. A neutral slot can still be marked via its text.
	ClassNeutral Classification = iota
	// ClassCompleted marks work that has been done.
	ClassCompleted
	// ClassOverdue marks planned work that still has a deadline attached:
	// missed once the date has passed, otherwise pending.
	ClassOverdue
)

// KPIs are the headline counters of a dashboard run (or of one panel).
type KPIs struct {
	TotalPlanned    int
	Completed       int
	Pending         int // overdue-classified, date not yet passed
	DueSoon         int
	Missed          int
	ComplianceScore int // 0-100, rounded; 0 when nothing is planned
}

// MissedEntry is one overdue deadline, ordered by date in Metrics.MissedList.
type MissedEntry struct {
	Task        string
	PeriodLabel string
	Date        string
	DaysOverdue int
}

// UpcomingEntry is one not-yet-due deadline inside the due-soon window.
type UpcomingEntry struct {
	Task        string
	PeriodLabel string
	Date        string
}

// MonthBucket aggregates one month's marked slots for charting. Only months
// with at least one marked slot get a bucket.
type MonthBucket struct {
	Completed int
	Overdue   int
	Missed    int
}

// TaskBreakdown is the per-task completion breakdown inside a panel.
type TaskBreakdown struct {
	Label     string
	Planned   int
	Completed int
}

// Panel is an independent re-aggregation over the tasks matching one
// configured category. Panels are not a partition of the global totals: a
// task may belong to zero, one, or several panels.
type Panel struct {
	Name      string
	KPIs      KPIs
	Next      *UpcomingEntry
	Breakdown []TaskBreakdown
}

// WeeklyRow is one heatmap row: all dated marked slots of one calendar week.
type WeeklyRow struct {
	WeekStart string
	Total     int
	Completed int
	Pending   int
	Missed    int
}

// AuditCountdown is the day delta to a named audit window. DaysToStart is
// positive before the window, zero on the start day, negative afterwards.
type AuditCountdown struct {
	Start       string
	End         string
	DaysToStart int
}

// Metrics is the full derived output of one aggregation run. It is built
// fresh per run and never shares state with the input snapshot.
type Metrics struct {
	KPIs         KPIs
	MissedList   []MissedEntry
	UpcomingList []UpcomingEntry
	MonthBuckets map[string]MonthBucket
	Panels       []Panel
	Weekly       []WeeklyRow
	Audits       map[string]AuditCountdown
	Meta         snapshot.Meta
}

// EmptyMetrics is the placeholder rendered when no snapshot is available:
// all-zero KPIs, empty lists, no buckets.
func EmptyMetrics() Metrics {
	return Metrics{
		MissedList:   []MissedEntry{},
		UpcomingList: []UpcomingEntry{},
		MonthBuckets: map[string]MonthBucket{},
		Panels:       []Panel{},
		Weekly:       []WeeklyRow{},
		Audits:       map[string]AuditCountdown{},
	}
}
