// Package agent defines the decision engine interface shared by all
// competing agents
package agent

// Action is a discrete action that a decision engine can emit
type Action int

const (
	Wait Action = iota
	Shoot

	// NumActions is the number of discrete actions
	NumActions int = 2
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "Wait"
	case Shoot:
		return "Shoot"
	default:
		return "Unknown"
	}
}

// DecisionEngine determines the implementation details of an agent
// competing in an episode.
//
// A DecisionEngine is driven by an episode controller: it is notified
// when an episode starts, ticked once per simulation step with the
// amount of simulated time that has elapsed, and notified exactly once
// with its final score when the episode ends. DecisionEngines never
// block; any delay between decisions is implemented as an accumulated
// counter over the durations passed to OnTick().
type DecisionEngine interface {
	// OnEpisodeStart prepares the engine for a new episode
	OnEpisodeStart()

	// OnTick advances the engine by dt seconds of simulated time. At
	// most one action is emitted per tick.
	OnTick(dt float64)

	// OnEpisodeEnd reports the engine's terminal score. No new action
	// is started after OnEpisodeEnd until the next OnEpisodeStart.
	OnEpisodeEnd(finalScore int)
}

// Learner is a DecisionEngine that is rewarded immediately when the
// environment resolves a collection made by the engine
type Learner interface {
	DecisionEngine

	// OnCollection reports that the engine collected a target worth
	// value points, and whether that target was costly
	OnCollection(value int, costly bool)
}

// Aborter is a DecisionEngine whose episode may be abandoned before it
// completes. OnEpisodeAbort stops the engine like OnEpisodeEnd, but the
// truncated episode is not taken into account.
type Aborter interface {
	OnEpisodeAbort()
}
