package trackers

import (
	"context"
	"time"

	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/store"
)

// Store appends the result of each episode to a store.Store
type Store struct {
	store   store.Store
	timeout time.Duration
}

// NewStore returns a new *Store Tracker. Each write is bounded by
// timeout.
func NewStore(s store.Store, timeout time.Duration) *Store {
	return &Store{store: s, timeout: timeout}
}

// Track appends the result of an episode to the store
func (s *Store) Track(r episode.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.store.Append(ctx, r)
}

// Save closes the store
func (s *Store) Save() error {
	return s.store.Close()
}
