package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/samuelfneumann/ropeduel/episode"
)

// SQLStore keeps episode results in a SQL database. The same schema is
// used for sqlite and postgres.
type SQLStore struct {
	driver string
	dsn    string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the sqlite database file at
// path
func NewSQLiteStore(path string) *SQLStore {
	return &SQLStore{driver: "sqlite", dsn: path}
}

// NewPostgresStore returns a Store backed by the postgres database at
// dsn
func NewPostgresStore(dsn string) *SQLStore {
	return &SQLStore{driver: "pgx", dsn: dsn}
}

func (s *SQLStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dsn == "" {
		return errors.New("database path or dsn is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLStore) Append(ctx context.Context, r episode.Result) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, s.rebind(`
		INSERT INTO episodes (
			run_id, number, qlearning_score, heuristic_score, winner,
			epsilon, qtable_size, hit_rate, generation, best_fitness_ever,
			best_value_weight, best_distance_weight, best_weight_penalty,
			timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), r.RunID, r.Number, r.QLearningScore, r.HeuristicScore,
		r.Winner.String(), r.Epsilon, r.QTableSize, r.HitRate,
		r.Generation, r.BestFitnessEver, r.BestChromosome[0],
		r.BestChromosome[1], r.BestChromosome[2], r.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("append episode %d: %w", r.Number, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, runID string,
	limit int) ([]episode.Result, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT run_id, number, qlearning_score, heuristic_score, winner,
			epsilon, qtable_size, hit_rate, generation, best_fitness_ever,
			best_value_weight, best_distance_weight, best_weight_penalty,
			timestamp
		FROM episodes WHERE run_id = ? ORDER BY number DESC`
	args := []any{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []episode.Result
	for rows.Next() {
		var (
			r      episode.Result
			winner string
			nanos  int64
		)
		if err := rows.Scan(&r.RunID, &r.Number, &r.QLearningScore,
			&r.HeuristicScore, &winner, &r.Epsilon, &r.QTableSize,
			&r.HitRate, &r.Generation, &r.BestFitnessEver,
			&r.BestChromosome[0], &r.BestChromosome[1],
			&r.BestChromosome[2], &nanos); err != nil {
			return nil, err
		}
		if r.Winner, err = episode.ParseWinner(winner); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, nanos).UTC()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows were read newest first
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// rebind replaces ? placeholders with $n placeholders for postgres
func (s *SQLStore) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			number BIGINT NOT NULL,
			qlearning_score BIGINT NOT NULL,
			heuristic_score BIGINT NOT NULL,
			winner TEXT NOT NULL,
			epsilon DOUBLE PRECISION NOT NULL,
			qtable_size BIGINT NOT NULL,
			hit_rate DOUBLE PRECISION NOT NULL,
			generation BIGINT NOT NULL,
			best_fitness_ever DOUBLE PRECISION NOT NULL,
			best_value_weight DOUBLE PRECISION NOT NULL,
			best_distance_weight DOUBLE PRECISION NOT NULL,
			best_weight_penalty DOUBLE PRECISION NOT NULL,
			timestamp BIGINT NOT NULL,
			PRIMARY KEY (run_id, number)
		)
	`)
	return err
}
