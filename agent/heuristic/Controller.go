package heuristic

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/samuelfneumann/ropeduel/environment"
)

// State is the state of a Controller
type State int

const (
	Idle State = iota
	TargetSelected
	AwaitingAlignment
)

func (s State) String() string {
	switch s {
	case TargetSelected:
		return "TargetSelected"
	case AwaitingAlignment:
		return "AwaitingAlignment"
	default:
		return "Idle"
	}
}

// Tuner provides the weights used by a Controller and receives the
// score the Controller achieved with them
type Tuner interface {
	// ActiveWeights returns the weights to use for the next episode,
	// if any are available
	ActiveWeights() (Weights, bool)

	// RecordResult reports the score achieved with the active weights
	RecordResult(score int)
}

// Config represents a configuration for the Controller
type Config struct {
	// DecisionDelay is the simulated time in seconds between target
	// selections
	DecisionDelay float64 `json:"decision_delay" env:"DECISION_DELAY"`

	// AlignmentTolerance is the maximum difference in degrees between
	// the actuator angle and the bearing to the selected target for
	// the actuator to be triggered
	AlignmentTolerance float64 `json:"alignment_tolerance" env:"ALIGNMENT_TOLERANCE"`

	// UseDistanceWeight uses the distance weight gene as an exponent on
	// the distance to targets when scoring
	UseDistanceWeight bool `json:"use_distance_weight" env:"USE_DISTANCE_WEIGHT"`
}

// DefaultConfig returns the default Config
func DefaultConfig() Config {
	return Config{
		DecisionDelay:      0.5,
		AlignmentTolerance: 5.0,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.DecisionDelay < 0 {
		return fmt.Errorf("decision delay cannot be lower than 0")
	}
	if c.AlignmentTolerance <= 0 {
		return fmt.Errorf("alignment tolerance must be > 0")
	}
	return nil
}

// Controller implements a greedy agent.DecisionEngine.
//
// Every DecisionDelay seconds, the Controller scores all live targets
// and selects the best one, remembering the bearing to it. On every
// tick, if the actuator's angle is within AlignmentTolerance of the
// remembered bearing, the actuator is triggered and the target is
// released. A selected target that vanishes is released before it is
// ever acted upon.
type Controller struct {
	config   Config
	sensor   environment.Sensor
	actuator environment.Actuator
	tuner    Tuner
	logger   *slog.Logger

	weights Weights

	active        bool
	warned        bool
	decisionTimer float64
	state         State
	target        environment.TargetID
	bearing       float64

	shots     int
	lastScore int
}

// NewController returns a new Controller. The tuner may be nil, in
// which case the Controller always uses its current weights. The
// sensor and actuator may be nil, in which case the misconfiguration is
// logged and every tick is a no-op.
func NewController(c Config, sensor environment.Sensor,
	actuator environment.Actuator, tuner Tuner,
	logger *slog.Logger) (*Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newController: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Controller{
		config:   c,
		sensor:   sensor,
		actuator: actuator,
		tuner:    tuner,
		logger:   logger.With("engine", "heuristic"),
		weights:  DefaultWeights(),
		active:   true,
		state:    Idle,
	}, nil
}

// SetWeights sets the scoring weights of the Controller
func (c *Controller) SetWeights(w Weights) {
	w.DistanceExponent = c.config.UseDistanceWeight
	c.weights = w
}

// Weights returns the scoring weights of the Controller
func (c *Controller) Weights() Weights {
	return c.weights
}

// State returns the current state of the Controller
func (c *Controller) State() State {
	return c.state
}

// Target returns the currently selected target, if any
func (c *Controller) Target() (environment.TargetID, bool) {
	return c.target, c.state != Idle
}

// OnEpisodeStart applies the tuner's active weights and resets the
// Controller
func (c *Controller) OnEpisodeStart() {
	if c.tuner != nil {
		if w, ok := c.tuner.ActiveWeights(); ok {
			c.SetWeights(w)
		}
	}

	c.active = true
	c.decisionTimer = 0
	c.release()
}

// OnTick advances the Controller by dt seconds
func (c *Controller) OnTick(dt float64) {
	if !c.active {
		return
	}
	if c.sensor == nil || c.actuator == nil {
		if !c.warned {
			c.logger.Error("decision engine has no sensor or actuator, " +
				"ignoring ticks")
			c.warned = true
		}
		return
	}
	if c.actuator.IsEngaged() {
		return
	}

	if c.state != Idle && !c.sensor.Alive(c.target) {
		c.release()
	}

	c.decisionTimer += dt
	if c.decisionTimer >= c.config.DecisionDelay {
		c.decisionTimer = 0
		c.selectTarget()
	}

	if c.state != Idle {
		c.checkAndShoot()
	}
}

// selectTarget selects the live target with the strictly highest score.
// Ties are broken by the order in which the sensor reports targets.
func (c *Controller) selectTarget() {
	origin := c.sensor.Origin()

	var best environment.Target
	bestScore := math.Inf(-1)
	found := false

	for _, t := range c.sensor.VisibleTargets() {
		if !c.sensor.Alive(t.ID) {
			continue
		}

		score := Score(t, origin, c.weights)
		if !found || score > bestScore {
			best = t
			bestScore = score
			found = true
		}
	}

	if !found {
		c.release()
		return
	}

	c.target = best.ID
	c.bearing = environment.Bearing(origin, best.Position)
	c.state = TargetSelected
}

// checkAndShoot triggers the actuator once it is aligned with the
// selected target
func (c *Controller) checkAndShoot() {
	diff := environment.AngleDiff(c.actuator.CurrentAngle(), c.bearing)
	if diff >= c.config.AlignmentTolerance {
		c.state = AwaitingAlignment
		return
	}

	c.actuator.Trigger()
	c.shots++
	c.release()
}

// release forgets the selected target
func (c *Controller) release() {
	c.state = Idle
	c.target = 0
	c.bearing = 0
}

// OnEpisodeEnd reports the final score to the tuner. No action is taken
// until the next episode starts.
func (c *Controller) OnEpisodeEnd(finalScore int) {
	if !c.active {
		c.logger.Warn("episode end reported twice, ignoring",
			"score", finalScore)
		return
	}

	c.active = false
	c.release()
	c.lastScore = finalScore

	if c.tuner != nil {
		c.tuner.RecordResult(finalScore)
	}
	c.logger.Debug("episode finished", "score", finalScore,
		"shots", c.shots)
}

// OnEpisodeAbort stops the Controller without reporting a score to the
// tuner, so the active weights are evaluated again in the next episode
func (c *Controller) OnEpisodeAbort() {
	if !c.active {
		return
	}
	c.active = false
	c.release()
	c.logger.Debug("episode aborted", "shots", c.shots)
}

// Shots returns the number of times the Controller has triggered its
// actuator
func (c *Controller) Shots() int {
	return c.shots
}
