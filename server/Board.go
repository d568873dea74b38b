package server

import (
	"sync"

	"github.com/samuelfneumann/ropeduel/agent/qlearning"
	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/evolution"
	"github.com/samuelfneumann/ropeduel/experiment/trackers"
)

// Status describes the progress of a run
type Status struct {
	RunID     string             `json:"run_id"`
	Episodes  int                `json:"episodes"`
	Standings trackers.Standings `json:"standings"`
	QLearning qlearning.Stats    `json:"qlearning"`
	Evolution EvolutionStatus    `json:"evolution"`
	Last      *episode.Result    `json:"last,omitempty"`
}

// EvolutionStatus describes the progress of the evolutionary tuner
type EvolutionStatus struct {
	Generation      int     `json:"generation"`
	Index           int     `json:"index"`
	BestFitnessEver float64 `json:"best_fitness_ever"`
}

// Board is a tracker.Tracker which keeps immutable snapshots of the
// decision engines for the inspection API. Snapshots are taken on the
// goroutine which runs the duel, so the engines are never read
// concurrently.
type Board struct {
	mu sync.RWMutex

	engine *qlearning.Engine
	tuner  *evolution.Tuner
	topN   int
	recent int

	status     Status
	results    []episode.Result
	best       *evolution.Chromosome
	population evolution.Population
	history    []evolution.GenerationStats
	top        []qlearning.Entry
}

// NewBoard returns a new Board for the given engines. The Board
// remembers the last recent episode results and the topN highest
// Q-table entries.
func NewBoard(runID string, engine *qlearning.Engine, tuner *evolution.Tuner,
	recent, topN int) *Board {
	b := &Board{
		engine: engine,
		tuner:  tuner,
		topN:   topN,
		recent: recent,
	}
	b.status.RunID = runID
	b.snapshot()
	return b
}

// Track implements the tracker.Tracker interface
func (b *Board) Track(r episode.Result) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = append(b.results, r)
	if len(b.results) > b.recent {
		b.results = b.results[len(b.results)-b.recent:]
	}

	b.status.Episodes = r.Number
	b.status.Standings.Add(r.Winner)
	last := r
	b.status.Last = &last

	b.snapshot()
	return nil
}

// snapshot copies the state of the engines. The caller must hold the
// write lock, or have exclusive access to the Board.
func (b *Board) snapshot() {
	if b.engine != nil {
		b.status.QLearning = b.engine.Stats()
		b.top = b.engine.Table().Top(b.topN)
	}

	if b.tuner != nil {
		b.status.Evolution = EvolutionStatus{
			Generation:      b.tuner.Generation(),
			Index:           b.tuner.Index(),
			BestFitnessEver: b.tuner.BestFitness(),
		}
		b.population = b.tuner.Population()
		b.history = b.tuner.History()
		if best, ok := b.tuner.BestEver(); ok {
			b.best = &best
		}
	}
}

// Save implements the tracker.Tracker interface. A Board keeps nothing
// on disk.
func (b *Board) Save() error {
	return nil
}

// Status returns the current Status
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Results returns at most n of the most recent episode results, oldest
// first. If n <= 0, all remembered results are returned.
func (b *Board) Results(n int) []episode.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()

	results := b.results
	if n > 0 && n < len(results) {
		results = results[len(results)-n:]
	}
	out := make([]episode.Result, len(results))
	copy(out, results)
	return out
}

// Best returns the fittest Chromosome ever evaluated
func (b *Board) Best() (evolution.Chromosome, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.best == nil {
		return evolution.Chromosome{}, false
	}
	return *b.best, true
}

// Population returns the current population and the statistics of all
// evaluated generations
func (b *Board) Population() (evolution.Population, []evolution.GenerationStats) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.population.Clone(), append([]evolution.GenerationStats(nil),
		b.history...)
}

// Top returns at most n of the highest valued Q-table entries
func (b *Board) Top(n int) []qlearning.Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	top := b.top
	if n >= 0 && n < len(top) {
		top = top[:n]
	}
	out := make([]qlearning.Entry, len(top))
	copy(out, top)
	return out
}
