// Package experiment implements functionality for running a duel between
// the two decision engines over many episodes
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samuelfneumann/ropeduel/agent"
	"github.com/samuelfneumann/ropeduel/environment"
	"github.com/samuelfneumann/ropeduel/environment/goldmine"
	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/experiment/checkpointer"
	"github.com/samuelfneumann/ropeduel/experiment/tracker"
)

// World is the environment in which a duel is played
type World interface {
	// Reset starts a new episode
	Reset()

	// Step advances the world dt seconds and returns the collections
	// made during the step
	Step(dt float64) []goldmine.Collection

	// Score returns the score of a side in the current episode
	Score(o goldmine.Owner) int
}

// Reporter fills in the fields of an episode result that describe the
// state of a decision engine
type Reporter interface {
	Report(r *episode.Result)
}

// Config represents a configuration of a Duel
type Config struct {
	RunID    string  `json:"run_id" env:"RUN_ID"`
	Duration float64 `json:"duration" env:"DURATION"`   // Seconds per episode
	TimeStep float64 `json:"time_step" env:"TIME_STEP"` // Seconds per simulation step
}

// DefaultConfig returns the default Config
func DefaultConfig() Config {
	return Config{
		Duration: 60,
		TimeStep: 1.0 / 50.0,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("episode duration must be positive")
	}
	if c.TimeStep <= 0 || c.TimeStep > c.Duration {
		return fmt.Errorf("time step must be in (0, duration]")
	}
	return nil
}

// Duel runs the Q-learning and the heuristic decision engines against
// each other in a World.
//
// Every simulation step, both engines are ticked, after which the World
// is stepped and the collections it resolved are reported to the
// Q-learning engine. When an episode ends, both engines are notified of
// their final score, and the result of the episode is sent to all
// registered Trackers and Checkpointers. Tracker and Checkpointer
// errors are logged and never stop the Duel.
type Duel struct {
	config    Config
	world     World
	qlearning agent.Learner
	heuristic agent.DecisionEngine
	logger    *slog.Logger

	enders        []environment.Ender
	reporters     []Reporter
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	episode int
	now     func() time.Time
}

// NewDuel creates and returns a new Duel. Episodes end once
// c.Duration seconds have been simulated, or once any Ender added with
// AddEnder() ends them.
func NewDuel(c Config, w World, qlearning agent.Learner,
	heuristic agent.DecisionEngine, logger *slog.Logger) (*Duel, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newDuel: invalid config: %w", err)
	}
	if w == nil || qlearning == nil || heuristic == nil {
		return nil, fmt.Errorf("newDuel: world and engines are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Duel{
		config:    c,
		world:     w,
		qlearning: qlearning,
		heuristic: heuristic,
		logger:    logger.With("component", "duel"),
		enders:    []environment.Ender{environment.NewTimeLimit(c.Duration)},
		now:       time.Now,
	}, nil
}

// AddEnder adds an additional condition which ends episodes early
func (d *Duel) AddEnder(e environment.Ender) {
	d.enders = append(d.enders, e)
}

// Register registers a tracker.Tracker with the Duel so that episode
// results are tracked and saved
func (d *Duel) Register(t tracker.Tracker) {
	d.trackers = append(d.trackers, t)
}

// RegisterCheckpointer registers a Checkpointer which is called after
// every episode
func (d *Duel) RegisterCheckpointer(c checkpointer.Checkpointer) {
	d.checkpointers = append(d.checkpointers, c)
}

// RegisterReporter registers a Reporter which describes a decision
// engine in each episode result
func (d *Duel) RegisterReporter(r Reporter) {
	d.reporters = append(d.reporters, r)
}

// SetEpisode sets the number of episodes already played, so that a
// resumed run continues its numbering
func (d *Duel) SetEpisode(n int) {
	d.episode = n
}

// Episode returns the number of episodes played
func (d *Duel) Episode() int {
	return d.episode
}

func (d *Duel) ended(elapsed float64) bool {
	for _, e := range d.enders {
		if e.End(elapsed) {
			return true
		}
	}
	return false
}

// RunEpisode runs a single episode and returns its result.
//
// If ctx is cancelled mid-episode, the episode is ended immediately.
// The Q-learning engine is notified of its current score so that its
// last transition is learned, and the heuristic engine is aborted if it
// implements agent.Aborter. The truncated episode is neither counted
// nor tracked, and ctx.Err() is returned.
func (d *Duel) RunEpisode(ctx context.Context) (episode.Result, error) {
	d.world.Reset()
	d.qlearning.OnEpisodeStart()
	d.heuristic.OnEpisodeStart()

	elapsed := 0.0
	for !d.ended(elapsed) {
		if err := ctx.Err(); err != nil {
			d.abort()
			return episode.Result{}, err
		}

		d.qlearning.OnTick(d.config.TimeStep)
		d.heuristic.OnTick(d.config.TimeStep)

		for _, c := range d.world.Step(d.config.TimeStep) {
			if c.Owner == goldmine.QLearning {
				d.qlearning.OnCollection(c.Target.Value, c.Target.Costly)
			}
		}
		elapsed += d.config.TimeStep
	}

	q, h := d.end()
	d.episode++

	r := episode.Result{
		RunID:          d.config.RunID,
		Number:         d.episode,
		QLearningScore: q,
		HeuristicScore: h,
		Winner:         episode.Decide(q, h),
		Timestamp:      d.now(),
	}
	for _, reporter := range d.reporters {
		reporter.Report(&r)
	}

	d.track(r)
	d.checkpoint(d.episode)

	d.logger.Debug("episode finished", "episode", r.Number,
		"qlearning", q, "heuristic", h, "winner", r.Winner)
	return r, nil
}

// end reports the final scores to both engines
func (d *Duel) end() (qlearning, heuristic int) {
	qlearning = d.world.Score(goldmine.QLearning)
	heuristic = d.world.Score(goldmine.Heuristic)

	d.qlearning.OnEpisodeEnd(qlearning)
	d.heuristic.OnEpisodeEnd(heuristic)
	return qlearning, heuristic
}

// abort ends a truncated episode. Engines which cannot be aborted are
// notified of their current score.
func (d *Duel) abort() {
	d.qlearning.OnEpisodeEnd(d.world.Score(goldmine.QLearning))
	if a, ok := d.heuristic.(agent.Aborter); ok {
		a.OnEpisodeAbort()
		return
	}
	d.heuristic.OnEpisodeEnd(d.world.Score(goldmine.Heuristic))
}

// Run runs n episodes, stopping early if ctx is cancelled
func (d *Duel) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if _, err := d.RunEpisode(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data tracked by the Trackers
func (d *Duel) Save() error {
	var errs []error
	for _, t := range d.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track sends an episode result to each Tracker
func (d *Duel) track(r episode.Result) {
	for _, t := range d.trackers {
		if err := t.Track(r); err != nil {
			d.logger.Error("could not track episode", "episode", r.Number,
				"error", err)
		}
	}
}

// checkpoint calls each Checkpointer
func (d *Duel) checkpoint(n int) {
	for _, c := range d.checkpointers {
		if err := c.Checkpoint(n); err != nil {
			d.logger.Error("could not checkpoint", "episode", n,
				"error", err)
		}
	}
}
