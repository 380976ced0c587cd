package dashboard

import (
	"math"
	"sort"
	"strings"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/pkg/snapshot"
)

// Aggregate folds one snapshot into the full derived metrics in a single
// pass per task list. It is a pure function of (snapshot, today, cfg): it
// mutates no shared state, never fails, and always returns a well-formed
// Metrics value.
func Aggregate(snap snapshot.Snapshot, today string, cfg config.Dashboard) Metrics {
	classifier := NewColorClassifier(cfg)

	metrics := EmptyMetrics()
	metrics.Meta = snap.Meta

	weekRows := map[string]*WeeklyRow{}

	for _, task := range snap.Tasks {
		for _, slot := range task.Slots {
			if !classifier.IsMarked(slot) {
				continue
			}
			metrics.KPIs.TotalPlanned++

			week, dated := weekStart(slot.Date)
			if dated {
				row := weekRows[week]
				if row == nil {
					row = &WeeklyRow{WeekStart: week}
					weekRows[week] = row
				}
				row.Total++
			}

			switch classifier.Classify(slot.FillColor) {
			case ClassCompleted:
				metrics.KPIs.Completed++
				bumpMonth(metrics.MonthBuckets, slot.MonthName, func(b *MonthBucket) { b.Completed++ })
				if dated {
					weekRows[week].Completed++
				}
			case ClassOverdue:
				if isPast(slot.Date, today) {
					metrics.KPIs.Missed++
					bumpMonth(metrics.MonthBuckets, slot.MonthName, func(b *MonthBucket) { b.Missed++ })
					metrics.MissedList = append(metrics.MissedList, MissedEntry{
						Task:        task.Label,
						PeriodLabel: slot.PeriodLabel(),
						Date:        slot.Date,
						DaysOverdue: daysBetween(slot.Date, today),
					})
					if dated {
						weekRows[week].Missed++
					}
				} else {
					metrics.KPIs.Pending++
					bumpMonth(metrics.MonthBuckets, slot.MonthName, func(b *MonthBucket) { b.Overdue++ })
					if withinWindow(slot.Date, today, cfg.DueSoonWindowDays) {
						metrics.KPIs.DueSoon++
						metrics.UpcomingList = append(metrics.UpcomingList, UpcomingEntry{
							Task:        task.Label,
							PeriodLabel: slot.PeriodLabel(),
							Date:        slot.Date,
						})
					}
					if dated {
						weekRows[week].Pending++
					}
				}
			case ClassNeutral:
				// Annotation-only slots count toward the planned total but
				// steer no completed/missed/due-soon branch.
			}
		}
	}

	sort.SliceStable(metrics.MissedList, func(i, j int) bool {
		return metrics.MissedList[i].Date < metrics.MissedList[j].Date
	})
	sort.SliceStable(metrics.UpcomingList, func(i, j int) bool {
		return metrics.UpcomingList[i].Date < metrics.UpcomingList[j].Date
	})

	metrics.KPIs.ComplianceScore = complianceScore(metrics.KPIs.Completed, metrics.KPIs.TotalPlanned)

	for _, panelCfg := range cfg.Panels {
		metrics.Panels = append(metrics.Panels, aggregatePanel(snap, today, cfg, classifier, panelCfg))
	}

	for week := range weekRows {
		metrics.Weekly = append(metrics.Weekly, *weekRows[week])
	}
	sort.Slice(metrics.Weekly, func(i, j int) bool {
		return metrics.Weekly[i].WeekStart < metrics.Weekly[j].WeekStart
	})

	for _, audit := range cfg.Audits {
		metrics.Audits[audit.Name] = Countdown(audit, today)
	}

	return metrics
}

// aggregatePanel re-derives the same counters restricted to the tasks
// matching the panel's label keywords. Every panel is an independent
// re-aggregation, so panel sums need not add up to the global totals.
func aggregatePanel(
	snap snapshot.Snapshot,
	today string,
	cfg config.Dashboard,
	classifier *ColorClassifier,
	panelCfg config.Panel,
) Panel {
	panel := Panel{Name: panelCfg.Name}

	for _, task := range snap.Tasks {
		if !matchesPanel(task.Label, panelCfg.Keywords) {
			continue
		}
		breakdown := TaskBreakdown{Label: task.Label}
		for _, slot := range task.Slots {
			if !classifier.IsMarked(slot) {
				continue
			}
			panel.KPIs.TotalPlanned++
			breakdown.Planned++

			switch classifier.Classify(slot.FillColor) {
			case ClassCompleted:
				panel.KPIs.Completed++
				breakdown.Completed++
			case ClassOverdue:
				if isPast(slot.Date, today) {
					panel.KPIs.Missed++
				} else {
					panel.KPIs.Pending++
					if withinWindow(slot.Date, today, cfg.DueSoonWindowDays) {
						panel.KPIs.DueSoon++
					}
					if validDate(slot.Date) && (panel.Next == nil || slot.Date < panel.Next.Date) {
						panel.Next = &UpcomingEntry{
							Task:        task.Label,
							PeriodLabel: slot.PeriodLabel(),
							Date:        slot.Date,
						}
					}
				}
			}
		}
		// Tasks with zero marked slots create no breakdown entry.
		if breakdown.Planned > 0 {
			panel.Breakdown = append(panel.Breakdown, breakdown)
		}
	}

	panel.KPIs.ComplianceScore = complianceScore(panel.KPIs.Completed, panel.KPIs.TotalPlanned)
	return panel
}

// bumpMonth updates the bucket of the given month. Slots without a month
// label stay out of the chart buckets.
func bumpMonth(buckets map[string]MonthBucket, monthName string, update func(*MonthBucket)) {
	name := strings.TrimSpace(monthName)
	if name == "" {
		return
	}
	bucket := buckets[name]
	update(&bucket)
	buckets[name] = bucket
}

func matchesPanel(label string, keywords []string) bool {
	lowered := strings.ToLower(label)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// complianceScore is completed/planned rounded to a whole percentage, 0 when
// nothing is planned.
func complianceScore(completed int, planned int) int {
	if planned == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(planned) * 100))
}
