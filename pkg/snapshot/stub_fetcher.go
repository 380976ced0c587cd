package snapshot

import "context"

// StubFetcher is a Fetcher for tests: it returns a preconfigured snapshot or
// error.
type StubFetcher struct {
	Snapshot Snapshot
	Err      error
}

func NewStubFetcher() *StubFetcher {
	return &StubFetcher{}
}

func (s *StubFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	if s.Err != nil {
		return Snapshot{}, s.Err
	}
	return s.Snapshot, nil
}

func (s *StubFetcher) Reset() {
	s.Snapshot = Snapshot{}
	s.Err = nil
}
