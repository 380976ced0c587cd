package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Fetcher retrieves the latest tracker snapshot from its source.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// HTTPFetcher retrieves the snapshot from a published JSON endpoint
// (typically the web app URL the tracker exports to).
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create snapshot request: %w", err)
	}
	// The endpoint republishes on every upload; always bypass caches.
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("%w: unexpected status %d from snapshot endpoint", ErrUnavailable, resp.StatusCode)
	}

	snap, err := Decode(resp.Body)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Id = uuid.NewString()
	log.Debugf("Fetched snapshot %s with %d tasks from %s", snap.Id, len(snap.Tasks), f.url)
	return snap, nil
}

// FileFetcher reads the snapshot from a local JSON file, for air-gapped
// deployments and tests.
type FileFetcher struct {
	path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

func (f *FileFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	snap, err := Decode(file)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Id = uuid.NewString()
	return snap, nil
}
