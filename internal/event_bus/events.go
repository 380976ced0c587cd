package event_bus

import "time"

const (
	EventSnapshotFetched     EventType = "snapshot.fetched"
	EventSnapshotFetchFailed EventType = "snapshot.fetch_failed"
)

// SnapshotFetched is published after a tracker snapshot has been retrieved
// and decoded successfully.
type SnapshotFetched struct {
	SnapshotId  string
	SourceName  string
	SheetName   string
	ExtractedAt time.Time
	Tasks       int
}

// SnapshotFetchFailed is published when snapshot retrieval fails; the
// aggregation engine is not invoked in that case.
type SnapshotFetchFailed struct {
	SourceName string
	Reason     string
}
