package store

import (
	"context"
	"sync"

	"github.com/samuelfneumann/ropeduel/episode"
)

// MemoryStore keeps episode results in memory
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]episode.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string][]episode.Result)
	return nil
}

func (s *MemoryStore) Append(_ context.Context, r episode.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.runs[r.RunID] = append(s.runs[r.RunID], r)
	return nil
}

func (s *MemoryStore) List(_ context.Context, runID string,
	limit int) ([]episode.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	results := s.runs[runID]
	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	out := make([]episode.Result, len(results))
	copy(out, results)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
