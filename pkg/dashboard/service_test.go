package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/internal/event_bus"
	"github.com/complyview/complyview/internal/utils"
	"github.com/complyview/complyview/pkg/snapshot"
	"github.com/stretchr/testify/assert"
)

var fetcherStub = snapshot.NewStubFetcher()
var clock = &utils.MockClock{FixedNow: time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)}

func setup(t *testing.T) (Service, *event_bus.EventBus, func()) {
	bus := event_bus.NewEventBus()
	service := &ServiceImpl{
		fetcher: fetcherStub,
		bus:     bus,
		cfg: config.Dashboard{
			CompletedColors:   []string{"#00ff00"},
			OverdueColors:     []string{"#ff0000"},
			WhiteColors:       []string{"", "#ffffff"},
			DueSoonWindowDays: 30,
		},
		clock: clock,
	}
	return service, bus, func() {
		t.Log("Teardown after test")
		fetcherStub.Reset()
	}
}

func TestServiceImpl_GetDashboard(t *testing.T) {
	service, bus, teardown := setup(t)
	defer teardown()

	// given
	fetcherStub.Snapshot = snapshot.Snapshot{
		Id: "snap-1",
		Tasks: []snapshot.Task{
			{Label: "Fire drill", Slots: []snapshot.Slot{
				{FillColor: "#00ff00", Date: "2026-03-02", MonthName: "March", WeekOfMonth: 1},
				{FillColor: "#ff0000", Date: "2026-03-12", MonthName: "March", WeekOfMonth: 2},
			}},
		},
		Meta: snapshot.Meta{SheetName: "Compliance 2026", SourceName: "tracker.xlsx"},
	}
	var fetched []event_bus.SnapshotFetched
	event_bus.SubscribeTyped[event_bus.SnapshotFetched](bus, event_bus.EventSnapshotFetched,
		func(e event_bus.EventT[event_bus.SnapshotFetched]) error {
			fetched = append(fetched, e.Data)
			return nil
		})

	// when
	metrics, err := service.GetDashboard(context.Background())

	// then
	assert.NoError(t, err)
	assert.Equal(t, 2, metrics.KPIs.TotalPlanned)
	assert.Equal(t, 1, metrics.KPIs.Completed)
	assert.Equal(t, 1, metrics.KPIs.Missed)
	assert.Equal(t, 3, metrics.MissedList[0].DaysOverdue)
	// metadata passes through unchanged
	assert.Equal(t, "Compliance 2026", metrics.Meta.SheetName)
	assert.Equal(t, "tracker.xlsx", metrics.Meta.SourceName)
	// fetch outcome was published
	assert.Len(t, fetched, 1)
	assert.Equal(t, "snap-1", fetched[0].SnapshotId)
}

func TestServiceImpl_GetDashboard_unavailableSnapshot(t *testing.T) {
	service, bus, teardown := setup(t)
	defer teardown()

	// given
	fetcherStub.Err = snapshot.ErrUnavailable
	var failures []event_bus.SnapshotFetchFailed
	event_bus.SubscribeTyped[event_bus.SnapshotFetchFailed](bus, event_bus.EventSnapshotFetchFailed,
		func(e event_bus.EventT[event_bus.SnapshotFetchFailed]) error {
			failures = append(failures, e.Data)
			return nil
		})

	// when
	metrics, err := service.GetDashboard(context.Background())

	// then: the engine is not invoked, the placeholder metrics come back
	assert.ErrorIs(t, err, snapshot.ErrUnavailable)
	assert.Equal(t, EmptyMetrics(), metrics)
	assert.Len(t, failures, 1)
}

func TestServiceImpl_GetSnapshot(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	// given
	fetcherStub.Snapshot = snapshot.Snapshot{Id: "snap-2"}

	// when
	snap, err := service.GetSnapshot(context.Background())

	// then
	assert.NoError(t, err)
	assert.Equal(t, "snap-2", snap.Id)
}
