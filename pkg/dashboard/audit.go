package dashboard

import (
	"github.com/complyview/complyview/internal/config"
)

// Countdown computes the day delta to a named audit window. The sign
// convention is the contract the presentation layer relies on: positive
// before the start day, zero on it, negative after.
func Countdown(audit config.Audit, today string) AuditCountdown {
	return AuditCountdown{
		Start:       audit.Start,
		End:         audit.End,
		DaysToStart: daysBetween(today, audit.Start),
	}
}
