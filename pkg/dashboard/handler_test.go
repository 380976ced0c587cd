package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/complyview/complyview/pkg/snapshot"
	"github.com/stretchr/testify/assert"
)

type serviceStub struct {
	metrics Metrics
	snap    snapshot.Snapshot
	err     error
}

func (s *serviceStub) GetDashboard(ctx context.Context) (Metrics, error) {
	if s.err != nil {
		return EmptyMetrics(), s.err
	}
	return s.metrics, nil
}

func (s *serviceStub) GetSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	if s.err != nil {
		return snapshot.Snapshot{}, s.err
	}
	return s.snap, nil
}

func TestHandler_GetDashboard(t *testing.T) {
	// given
	metrics := EmptyMetrics()
	metrics.KPIs = KPIs{TotalPlanned: 4, Completed: 3, Missed: 1, ComplianceScore: 75}
	metrics.Weekly = []WeeklyRow{{WeekStart: "2026-03-09", Total: 4, Completed: 3, Missed: 1}}
	handler := NewHandler(&serviceStub{metrics: metrics}, NewCsvActionListRenderer())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	recorder := httptest.NewRecorder()

	// when
	handler.GetDashboard(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	var dto MetricsDTO
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &dto))
	assert.Equal(t, 75, dto.KPIs.ComplianceScore)
	// render-time percentages, rounded to nearest integer
	assert.Equal(t, 75, dto.Weekly[0].CompletedPercent)
	assert.Equal(t, 25, dto.Weekly[0].MissedPercent)
	assert.Equal(t, 0, dto.Weekly[0].PendingPercent)
}

func TestHandler_GetDashboard_csv(t *testing.T) {
	// given
	metrics := EmptyMetrics()
	metrics.MissedList = []MissedEntry{{Task: "Fire drill", PeriodLabel: "March W2", Date: "2026-03-12", DaysOverdue: 3}}
	handler := NewHandler(&serviceStub{metrics: metrics}, NewCsvActionListRenderer())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Accept", "text/csv")
	recorder := httptest.NewRecorder()

	// when
	handler.GetDashboard(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/csv; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "MISSED,Fire drill")
}

func TestHandler_GetDashboard_unavailable(t *testing.T) {
	// given
	handler := NewHandler(&serviceStub{err: snapshot.ErrUnavailable}, NewCsvActionListRenderer())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	recorder := httptest.NewRecorder()

	// when
	handler.GetDashboard(recorder, req)

	// then
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Snapshot not available")
}

func TestHandler_GetSnapshot(t *testing.T) {
	// given
	snap := snapshot.Snapshot{
		Id: "snap-1",
		Tasks: []snapshot.Task{
			{Label: "Fire drill", Slots: []snapshot.Slot{{FillColor: "#00ff00", Date: "2026-03-02", MonthName: "March", WeekOfMonth: 1}}},
		},
		WeekColumns: []snapshot.WeekColumn{{MonthName: "March", WeekOfMonth: 1}},
	}
	handler := NewHandler(&serviceStub{snap: snap}, NewCsvActionListRenderer())

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	recorder := httptest.NewRecorder()

	// when
	handler.GetSnapshot(recorder, req)

	// then
	assert.Equal(t, http.StatusOK, recorder.Code)
	var dto SnapshotDTO
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &dto))
	assert.Equal(t, "snap-1", dto.Id)
	assert.Equal(t, "#00ff00", dto.Tasks[0].Cells[0].Bg)
}
