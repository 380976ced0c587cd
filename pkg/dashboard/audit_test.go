package dashboard

import (
	"testing"

	"github.com/complyview/complyview/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCountdown(t *testing.T) {
	audit := config.Audit{Name: "ISO 9001 surveillance", Start: "2026-04-01", End: "2026-04-03"}

	// given a reference date before, on, and after the start day
	assert.Equal(t, 17, Countdown(audit, "2026-03-15").DaysToStart)
	assert.Equal(t, 0, Countdown(audit, "2026-04-01").DaysToStart)
	assert.Equal(t, -5, Countdown(audit, "2026-04-06").DaysToStart)

	// window dates pass through unchanged
	countdown := Countdown(audit, "2026-03-15")
	assert.Equal(t, "2026-04-01", countdown.Start)
	assert.Equal(t, "2026-04-03", countdown.End)
}
