// Package timestep implements the transitions recorded at each decision
// tick of the agent-environment interaction
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/ropeduel/agent"
	"github.com/samuelfneumann/ropeduel/state"
)

// Transition packages together a single (s, a, r, s') tuple, along with
// whether s' ends the episode
type Transition struct {
	State     state.Key
	Action    agent.Action
	Reward    float64
	NextState state.Key
	Terminal  bool
}

// New returns a new non-terminal Transition
func New(s state.Key, a agent.Action, r float64,
	next state.Key) Transition {
	return Transition{s, a, r, next, false}
}

// NewTerminal returns a new Transition into the terminal state
func NewTerminal(s state.Key, a agent.Action, r float64) Transition {
	return Transition{s, a, r, state.Terminal, true}
}

func (t Transition) String() string {
	str := "Transition | State: %v  |  Action: %v  |  Reward:  %.2f  |  " +
		"Next State:  %v  |  Terminal: %v"

	return fmt.Sprintf(str, t.State, t.Action, t.Reward, t.NextState,
		t.Terminal)
}
