// Package qlearning implements a tabular Q-learning decision engine.
//
// The Engine discretizes what its sensor sees into a state.Key, selects
// between waiting and shooting with an ε-greedy policy, and learns from
// shaped rewards with one-step temporal difference updates. Live
// transitions are additionally stored in an experience replay buffer,
// from which a batch is replayed after every live update.
package qlearning

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/ropeduel/agent"
	"github.com/samuelfneumann/ropeduel/agent/policy"
	"github.com/samuelfneumann/ropeduel/environment"
	"github.com/samuelfneumann/ropeduel/expreplay"
	"github.com/samuelfneumann/ropeduel/state"
	"github.com/samuelfneumann/ropeduel/timestep"
)

// rewardHistoryLen is the number of episodes over which the average
// episodic reward is reported
const rewardHistoryLen = 100

// Stats summarizes the learning progress of an Engine
type Stats struct {
	GamesPlayed   int     `json:"games_played"`
	Epsilon       float64 `json:"epsilon"`
	TableSize     int     `json:"table_size"`
	Shots         int     `json:"shots"`
	Hits          int     `json:"hits"`
	HitRate       float64 `json:"hit_rate"`
	AverageReward float64 `json:"average_reward"`
	LastScore     int     `json:"last_score"`
}

// Engine implements a tabular Q-learning agent.DecisionEngine
type Engine struct {
	config      Config
	sensor      environment.Sensor
	actuator    environment.Actuator
	discretizer state.Discretizer
	logger      *slog.Logger

	table  *Table
	policy *policy.EGreedy
	buffer expreplay.ExperienceReplayer // nil if replay is disabled

	active        bool
	decisionTimer float64
	hasLast       bool
	lastState     state.Key
	lastAction    agent.Action
	pendingReward float64
	warned        bool

	gamesPlayed   int
	shots         int
	hits          int
	lastScore     int
	episodeReward float64
	rewardHistory []float64
}

// New creates a new Engine. The sensor and actuator may be nil, in
// which case the misconfiguration is logged and every tick is a no-op.
func New(c Config, sensor environment.Sensor, actuator environment.Actuator,
	logger *slog.Logger, seed uint64) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, c.EpsilonDecay,
		c.MinEpsilon, c.ExploreShootProb, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	var buffer expreplay.ExperienceReplayer
	if c.UseExperienceReplay {
		buffer, err = expreplay.Config{
			SampleMethod:      expreplay.Uniform,
			SampleSize:        c.ReplayBatchSize,
			MinReplayCapacity: c.ReplayBatchSize,
			MaxReplayCapacity: c.ReplayBufferSize,
		}.Create(seed + 1)
		if err != nil {
			return nil, fmt.Errorf("new: could not create replay "+
				"buffer: %w", err)
		}
	}

	return &Engine{
		config:      c,
		sensor:      sensor,
		actuator:    actuator,
		discretizer: state.NewDiscretizer(),
		logger:      logger.With("engine", "qlearning"),

		table:  NewTable(),
		policy: behaviour,
		buffer: buffer,

		active: true,
	}, nil
}

// OnEpisodeStart prepares the Engine for a new episode
func (e *Engine) OnEpisodeStart() {
	e.active = true
	e.decisionTimer = 0
	e.hasLast = false
	e.pendingReward = 0
	e.episodeReward = 0
}

// OnTick advances the decision timer by dt seconds and makes a
// decision once the decision delay has elapsed. Decisions are
// suspended while the actuator is engaged.
func (e *Engine) OnTick(dt float64) {
	if !e.active {
		return
	}
	if e.sensor == nil || e.actuator == nil {
		if !e.warned {
			e.logger.Error("decision engine has no sensor or actuator, " +
				"ignoring ticks")
			e.warned = true
		}
		return
	}
	if e.actuator.IsEngaged() {
		return
	}

	e.decisionTimer += dt
	if e.decisionTimer < e.config.DecisionDelay {
		return
	}
	e.decisionTimer = 0

	e.decide()
}

// decide observes the current state, learns from the previous
// decision, and selects and performs the next action
func (e *Engine) decide() {
	current := e.discretizer.Discretize(e.sensor, e.actuator.CurrentAngle())

	if e.hasLast {
		tr := timestep.New(e.lastState, e.lastAction, e.pendingReward,
			current)
		e.learn(tr)
	}
	e.pendingReward = 0

	action := e.policy.SelectAction(e.table.Values(current))
	e.lastState = current
	e.lastAction = action
	e.hasLast = true

	switch action {
	case agent.Wait:
		if e.config.UseRewardShaping {
			e.reward(e.config.Rewards.Wait)
		}

	case agent.Shoot:
		if e.config.UseRewardShaping && !current.HasTarget() {
			e.reward(e.config.Rewards.EmptyShot)
		}
		e.shots++
		e.actuator.Trigger()
	}
}

// learn stores a transition and updates the action values with both
// the transition and a batch of replayed transitions
func (e *Engine) learn(tr timestep.Transition) {
	if e.buffer != nil {
		if err := e.buffer.Add(tr); err != nil {
			e.logger.Warn("could not store transition", "error", err)
		}
	}

	e.table.Update(tr, e.config.LearningRate, e.config.DiscountFactor)
	e.replay()
}

// replay re-applies the temporal difference update to a batch of
// stored transitions. Replay is skipped until the buffer holds a full
// batch.
func (e *Engine) replay() {
	if e.buffer == nil {
		return
	}

	batch, err := e.buffer.Sample()
	if expreplay.IsInsufficientSamples(err) {
		return
	} else if err != nil {
		e.logger.Warn("could not sample replay buffer", "error", err)
		return
	}

	for _, tr := range batch {
		e.table.Update(tr, e.config.LearningRate, e.config.DiscountFactor)
	}
}

// reward adds r to the reward pending since the last decision
func (e *Engine) reward(r float64) {
	e.pendingReward += r
	e.episodeReward += r
}

// OnCollection rewards the Engine for a target it collected. Only
// collections of targets which are not costly count as hits.
func (e *Engine) OnCollection(value int, costly bool) {
	if !costly {
		e.hits++
	}

	if e.config.UseRewardShaping {
		e.reward(e.config.Rewards.Collection(value, costly))
	} else {
		e.reward(e.config.Rewards.unshapedCollection(value, costly))
	}
}

// OnEpisodeEnd learns from the final, terminal transition of the
// episode and decays ε. No action is taken until the next episode
// starts.
func (e *Engine) OnEpisodeEnd(finalScore int) {
	if !e.active {
		e.logger.Warn("episode end reported twice, ignoring",
			"score", finalScore)
		return
	}

	if e.hasLast {
		tr := timestep.NewTerminal(e.lastState, e.lastAction,
			e.pendingReward)
		e.learn(tr)
	}
	e.pendingReward = 0
	e.hasLast = false
	e.active = false

	epsilon := e.policy.Decay()
	e.gamesPlayed++
	e.lastScore = finalScore

	e.rewardHistory = append(e.rewardHistory, e.episodeReward)
	if len(e.rewardHistory) > rewardHistoryLen {
		e.rewardHistory = e.rewardHistory[1:]
	}

	e.logger.Debug("episode finished", "score", finalScore,
		"epsilon", epsilon, "states", e.table.Size(),
		"reward", e.episodeReward)
}

// Table returns the action values learned by the Engine
func (e *Engine) Table() *Table {
	return e.table
}

// Epsilon returns the current exploration rate
func (e *Engine) Epsilon() float64 {
	return e.policy.Epsilon()
}

// Buffer returns the replay buffer of the Engine, or nil if experience
// replay is disabled
func (e *Engine) Buffer() expreplay.ExperienceReplayer {
	return e.buffer
}

// Stats returns the learning statistics of the Engine
func (e *Engine) Stats() Stats {
	s := Stats{
		GamesPlayed: e.gamesPlayed,
		Epsilon:     e.policy.Epsilon(),
		TableSize:   e.table.Size(),
		Shots:       e.shots,
		Hits:        e.hits,
		LastScore:   e.lastScore,
	}
	if e.shots > 0 {
		s.HitRate = float64(e.hits) / float64(e.shots)
	}
	if len(e.rewardHistory) > 0 {
		s.AverageReward = stat.Mean(e.rewardHistory, nil)
	}
	return s
}

// snapshot is the serialized form of an Engine
type snapshot struct {
	States      []string
	Actions     []int
	Values      []float64
	Epsilon     float64
	GamesPlayed int
	Shots       int
	Hits        int
}

// GobEncode implements the gob.GobEncoder interface
func (e *Engine) GobEncode() ([]byte, error) {
	s := snapshot{
		Epsilon:     e.policy.Epsilon(),
		GamesPlayed: e.gamesPlayed,
		Shots:       e.shots,
		Hits:        e.hits,
	}
	for k, v := range e.table.values {
		s.States = append(s.States, k.State.String())
		s.Actions = append(s.Actions, int(k.Action))
		s.Values = append(s.Values, v)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("gobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The table,
// exploration rate, and counters of the Engine are replaced by the
// decoded ones.
func (e *Engine) GobDecode(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}
	if len(s.States) != len(s.Actions) || len(s.States) != len(s.Values) {
		return fmt.Errorf("gobDecode: malformed table")
	}

	table := NewTable()
	for i := range s.States {
		key, ok := state.Parse(s.States[i])
		if !ok {
			return fmt.Errorf("gobDecode: invalid state %q", s.States[i])
		}
		table.Set(key, agent.Action(s.Actions[i]), s.Values[i])
	}

	e.table = table
	e.policy.SetEpsilon(s.Epsilon)
	e.gamesPlayed = s.GamesPlayed
	e.shots = s.Shots
	e.hits = s.Hits
	return nil
}
