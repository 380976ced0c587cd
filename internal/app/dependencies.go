package app

import (
	"fmt"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/internal/event_bus"
	"github.com/complyview/complyview/internal/utils"
	"github.com/complyview/complyview/pkg/dashboard"
	"github.com/complyview/complyview/pkg/sheets"
	"github.com/complyview/complyview/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	SnapshotFetcher snapshot.Fetcher

	DashboardService *dashboard.ServiceImpl
	CsvRenderer      *dashboard.CsvActionListRendererImpl
	DashboardHandler *dashboard.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	subscribeSnapshotLogging(deps.Bus)

	fetcher, err := buildFetcher(cfg.Source)
	if err != nil {
		return nil, err
	}
	deps.SnapshotFetcher = fetcher

	deps.DashboardService = dashboard.NewService(deps.SnapshotFetcher, deps.Bus, cfg.Dashboard)
	deps.CsvRenderer = dashboard.NewCsvActionListRenderer()
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.CsvRenderer)

	deps.Clock = &utils.SystemClock{}

	return deps, nil
}

func buildFetcher(cfg config.Source) (snapshot.Fetcher, error) {
	switch cfg.Mode {
	case "http":
		if cfg.URL == "" {
			return nil, fmt.Errorf("source.url is required for http snapshot source")
		}
		return snapshot.NewHTTPFetcher(cfg.URL), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("source.path is required for file snapshot source")
		}
		return snapshot.NewFileFetcher(cfg.Path), nil
	case "sheets":
		if cfg.Sheets.SpreadsheetId == "" {
			return nil, fmt.Errorf("source.sheets.spreadsheetid is required for sheets snapshot source")
		}
		return sheets.NewFetcher(cfg.Sheets), nil
	default:
		return nil, fmt.Errorf("unknown snapshot source mode: %q", cfg.Mode)
	}
}

func subscribeSnapshotLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.SnapshotFetched](bus, event_bus.EventSnapshotFetched,
		func(e event_bus.EventT[event_bus.SnapshotFetched]) error {
			log.Infof("Snapshot %s loaded: %d tasks from %s (sheet %q)",
				e.Data.SnapshotId, e.Data.Tasks, e.Data.SourceName, e.Data.SheetName)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.SnapshotFetchFailed](bus, event_bus.EventSnapshotFetchFailed,
		func(e event_bus.EventT[event_bus.SnapshotFetchFailed]) error {
			log.Warnf("Snapshot retrieval failed: %s", e.Data.Reason)
			return nil
		})
}
