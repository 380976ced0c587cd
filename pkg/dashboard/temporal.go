package dashboard

import (
	"time"

	"github.com/complyview/complyview/internal/utils"
)

// Today computes the reference date for one aggregation run: the clock's
// current instant truncated to day precision in UTC, as a zero-padded ISO
// date. It is computed once per run so a run stays internally consistent
// even when it crosses midnight.
func Today(clock utils.Clock) string {
	return clock.Now().UTC().Format(time.DateOnly)
}

// validDate reports whether date is a well-formed zero-padded ISO date.
// Absent or malformed dates are "undated": neither past nor within any
// window, but still countable where color alone suffices.
func validDate(date string) bool {
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}

// isPast uses strict lexicographic comparison, which is correct for
// zero-padded ISO dates. A slot dated exactly today is not past.
func isPast(date string, today string) bool {
	return validDate(date) && date < today
}

// withinWindow is inclusive at both ends: today <= date <= today+windowDays,
// with the window end computed by calendar-day addition.
func withinWindow(date string, today string, windowDays int) bool {
	if !validDate(date) {
		return false
	}
	start, err := time.Parse(time.DateOnly, today)
	if err != nil {
		return false
	}
	end := start.AddDate(0, 0, windowDays).Format(time.DateOnly)
	return date >= today && date <= end
}

// daysBetween returns to-from in whole calendar days, 0 when either date is
// malformed.
func daysBetween(from string, to string) int {
	fromDate, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return 0
	}
	toDate, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return 0
	}
	return int(toDate.Sub(fromDate).Hours() / 24)
}

// weekStart returns the Monday of the week the date falls in, for grouping
// slots into heatmap rows.
func weekStart(date string) (string, bool) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", false
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(time.DateOnly), true
}
