package evolution

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/ropeduel/agent/heuristic"
)

// GenerationStats summarizes a fully evaluated generation
type GenerationStats struct {
	Generation  int        `json:"generation"`
	BestFitness float64    `json:"best_fitness"`
	MeanFitness float64    `json:"mean_fitness"`
	Best        Chromosome `json:"best"`
}

// Tuner evolves a Population of Chromosomes which parameterize the
// heuristic decision engine.
//
// Exactly one individual of the Population is active between two
// evolution events. The score achieved with the active individual's
// weights is recorded as its fitness, after which the next individual
// becomes active. Once every individual of a generation has been
// evaluated, the Population is evolved.
type Tuner struct {
	config Config
	logger *slog.Logger
	src    rand.Source
	rng    *rand.Rand

	population Population
	size       int
	generation int
	index      int

	// Accumulated results of the active individual under the PerMatch
	// evaluation policy
	episodesOnActive int
	matchFitness     float64

	best        *Chromosome
	bestFitness float64

	history []GenerationStats
}

// NewTuner returns a new Tuner with an empty Population. Initialize()
// must be called before the Tuner has an active individual.
func NewTuner(c Config, logger *slog.Logger, seed uint64) (*Tuner, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newTuner: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src := rand.NewSource(seed)
	return &Tuner{
		config: c,
		logger: logger.With("component", "tuner"),
		src:    src,
		rng:    rand.New(src),
		size:   c.PopulationSize,
	}, nil
}

// Initialize fills the Population with size random Chromosomes and
// activates the first of them
func (t *Tuner) Initialize(size int) {
	t.size = size
	t.population = make(Population, size)
	for i := range t.population {
		t.population[i] = NewRandom(t.src)
	}
	t.index = 0
	t.episodesOnActive = 0

	t.logger.Info("population initialized", "size", size)
}

// Active returns the active individual, if any
func (t *Tuner) Active() (*Chromosome, bool) {
	if t.index >= len(t.population) {
		return nil, false
	}
	return t.population[t.index], true
}

// ApplyActive returns the heuristic weights encoded by c
func (t *Tuner) ApplyActive(c *Chromosome) heuristic.Weights {
	return c.Weights()
}

// ActiveWeights returns the weights of the active individual, if any
func (t *Tuner) ActiveWeights() (heuristic.Weights, bool) {
	active, ok := t.Active()
	if !ok {
		return heuristic.Weights{}, false
	}
	return t.ApplyActive(active), true
}

// RecordResult records the score achieved by the active individual.
// Once the individual's fitness is final, the next individual becomes
// active, and the Population is evolved if the whole generation has
// been evaluated. RecordResult is a no-op if no individual is active.
func (t *Tuner) RecordResult(score int) {
	active, ok := t.Active()
	if !ok {
		t.logger.Warn("no active individual, ignoring result",
			"score", score)
		return
	}

	fitness := float64(score)
	if t.config.Evaluation == PerMatch {
		if t.episodesOnActive == 0 || fitness > t.matchFitness {
			t.matchFitness = fitness
		}
		t.episodesOnActive++
		if t.episodesOnActive < t.config.MatchLength {
			return
		}
		fitness = t.matchFitness
		t.episodesOnActive = 0
	}

	active.Fitness = fitness
	if t.best == nil || fitness > t.bestFitness {
		t.best = active.Clone()
		t.bestFitness = fitness
		t.logger.Info("new best chromosome", "fitness", fitness,
			"generation", t.generation, "chromosome", t.best.String())
	}

	t.index++
	if t.index >= len(t.population) {
		t.Evolve()
	}
}

// TournamentSelect selects a Chromosome from the Population with a
// tournament of size k
func (t *Tuner) TournamentSelect(k int) *Chromosome {
	return TournamentSelect(t.population, k, t.rng)
}

// Evolve replaces the Population with the next generation. The fittest
// ElitismCount Chromosomes are copied into the next generation
// unchanged, and the rest of the next generation is filled with
// mutated offspring of tournament-selected parents.
func (t *Tuner) Evolve() {
	if len(t.population) == 0 {
		t.logger.Warn("cannot evolve an empty population")
		return
	}

	t.population.SortByFitness()
	best, mean := t.population.Stats()
	t.history = append(t.history, GenerationStats{
		Generation:  t.generation,
		BestFitness: best,
		MeanFitness: mean,
		Best:        *t.population[0].Clone(),
	})

	elites := min(t.config.ElitismCount, len(t.population), t.size)
	next := make(Population, 0, t.size)
	for i := 0; i < elites; i++ {
		next = append(next, t.population[i].Clone())
	}

	for len(next) < t.size {
		a := t.TournamentSelect(t.config.TournamentSize)
		b := t.TournamentSelect(t.config.TournamentSize)

		child := Crossover(a, b, t.src)
		child.Mutate(t.config.MutationRate, t.config.MutationAmount, t.src)
		next = append(next, child)
	}

	t.population = next
	t.generation++
	t.index = 0
	t.episodesOnActive = 0

	t.logger.Info("population evolved", "generation", t.generation,
		"previous_best", best, "previous_mean", mean)
}

// BestEver returns a copy of the fittest Chromosome ever evaluated
func (t *Tuner) BestEver() (Chromosome, bool) {
	if t.best == nil {
		return Chromosome{}, false
	}
	return *t.best, true
}

// BestFitness returns the highest fitness ever evaluated
func (t *Tuner) BestFitness() float64 {
	return t.bestFitness
}

// Generation returns the current generation number
func (t *Tuner) Generation() int {
	return t.generation
}

// Index returns the index of the active individual
func (t *Tuner) Index() int {
	return t.index
}

// Population returns a copy of the current Population
func (t *Tuner) Population() Population {
	return t.population.Clone()
}

// History returns the statistics of all evaluated generations
func (t *Tuner) History() []GenerationStats {
	history := make([]GenerationStats, len(t.history))
	copy(history, t.history)
	return history
}

// tunerSnapshot is the serialized form of a Tuner
type tunerSnapshot struct {
	Population       []Chromosome
	Size             int
	Generation       int
	Index            int
	EpisodesOnActive int
	MatchFitness     float64
	HasBest          bool
	Best             Chromosome
	BestFitness      float64
	History          []GenerationStats
}

// GobEncode implements the gob.GobEncoder interface
func (t *Tuner) GobEncode() ([]byte, error) {
	s := tunerSnapshot{
		Size:             t.size,
		Generation:       t.generation,
		Index:            t.index,
		EpisodesOnActive: t.episodesOnActive,
		MatchFitness:     t.matchFitness,
		BestFitness:      t.bestFitness,
		History:          t.history,
	}
	for _, c := range t.population {
		s.Population = append(s.Population, *c)
	}
	if t.best != nil {
		s.HasBest = true
		s.Best = *t.best
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("gobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The evolutionary
// state of the Tuner is replaced by the decoded one; its configuration
// and random number generator are kept.
func (t *Tuner) GobDecode(data []byte) error {
	var s tunerSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}

	population := make(Population, len(s.Population))
	for i := range s.Population {
		population[i] = s.Population[i].Clone()
	}

	t.population = population
	t.size = s.Size
	t.generation = s.Generation
	t.index = s.Index
	t.episodesOnActive = s.EpisodesOnActive
	t.matchFitness = s.MatchFitness
	t.bestFitness = s.BestFitness
	t.history = s.History
	t.best = nil
	if s.HasBest {
		t.best = s.Best.Clone()
	}
	return nil
}
