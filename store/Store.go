// Package store implements the append-only log of episode results
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/samuelfneumann/ropeduel/episode"
)

// ErrNotInitialized is returned when a Store is used before Init()
var ErrNotInitialized = errors.New("store is not initialized")

// Store defines append-only persistence of episode results
type Store interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, r episode.Result) error

	// List returns the results of a run ordered by episode number. If
	// limit > 0, only the last limit results are returned.
	List(ctx context.Context, runID string, limit int) ([]episode.Result, error)

	// Close releases the Store. Closing a closed Store is a no-op.
	Close() error
}

// NewStore returns a Store of the given kind. The dsn is the database
// file for sqlite and the connection string for postgres, and is
// ignored by the memory store.
func NewStore(kind, dsn string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(dsn), nil
	case "postgres":
		return NewPostgresStore(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
