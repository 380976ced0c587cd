package dashboard

import (
	"context"
	"fmt"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/internal/event_bus"
	"github.com/complyview/complyview/internal/utils"
	"github.com/complyview/complyview/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// GetDashboard fetches the latest snapshot and aggregates it. When
	// retrieval fails the engine is not invoked: the returned error wraps the
	// cause and the Metrics value is the defined empty placeholder.
	GetDashboard(ctx context.Context) (Metrics, error)
	// GetSnapshot returns the raw snapshot for the grid view.
	GetSnapshot(ctx context.Context) (snapshot.Snapshot, error)
}

type ServiceImpl struct {
	fetcher snapshot.Fetcher
	bus     *event_bus.EventBus
	cfg     config.Dashboard
	clock   utils.Clock
}

func NewService(fetcher snapshot.Fetcher, bus *event_bus.EventBus, cfg config.Dashboard) *ServiceImpl {
	return &ServiceImpl{
		fetcher: fetcher,
		bus:     bus,
		cfg:     cfg,
		clock:   &utils.SystemClock{},
	}
}

func (s *ServiceImpl) GetDashboard(ctx context.Context) (Metrics, error) {
	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return EmptyMetrics(), err
	}

	today := Today(s.clock)
	log.Debugf("Aggregating snapshot %s (%d tasks) against reference date %s", snap.Id, len(snap.Tasks), today)
	return Aggregate(snap, today, s.cfg), nil
}

func (s *ServiceImpl) GetSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	return s.fetchSnapshot(ctx)
}

func (s *ServiceImpl) fetchSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	snap, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if publishErr := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventSnapshotFetchFailed, event_bus.SnapshotFetchFailed{
			Reason: err.Error(),
		})); publishErr != nil {
			log.Warnf("failed to publish snapshot failure event: %v", publishErr)
		}
		return snapshot.Snapshot{}, fmt.Errorf("failed to retrieve tracker snapshot: %w", err)
	}

	if publishErr := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventSnapshotFetched, event_bus.SnapshotFetched{
		SnapshotId:  snap.Id,
		SourceName:  snap.Meta.SourceName,
		SheetName:   snap.Meta.SheetName,
		ExtractedAt: snap.Meta.ExtractedAt,
		Tasks:       len(snap.Tasks),
	})); publishErr != nil {
		log.Warnf("failed to publish snapshot fetched event: %v", publishErr)
	}
	return snap, nil
}
