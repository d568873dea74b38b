// Package policy implements action selection policies over tabular
// action values
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/ropeduel/agent"
)

// EGreedy implements an ε-greedy policy over the two discrete actions.
//
// With probability ε an exploratory action is taken. Exploration is not
// uniform: the shoot action is chosen with probability shootBias, so
// that an agent which has not yet learned the value of shooting still
// engages often enough to observe its outcomes. Otherwise, the greedy
// action is taken, where shoot must have a strictly greater value than
// wait to be chosen.
//
// ε decays geometrically towards a floor each time Decay() is called.
type EGreedy struct {
	epsilon    float64
	decay      float64
	minEpsilon float64
	shootBias  float64
	seed       rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy, where e=epsilon is the
// initial probability with which an exploratory action is selected,
// decay is the multiplicative decay applied to ε by Decay(), minE is
// the floor for ε, and shootBias is the probability of shooting when
// exploring
func NewEGreedy(e, decay, minE, shootBias float64,
	seed uint64) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1]")
	}
	if minE < 0 || minE > 1 {
		return nil, fmt.Errorf("newEGreedy: minimum epsilon must be in " +
			"[0, 1]")
	}
	if decay <= 0 || decay > 1 {
		return nil, fmt.Errorf("newEGreedy: decay must be in (0, 1]")
	}
	if shootBias < 0 || shootBias > 1 {
		return nil, fmt.Errorf("newEGreedy: shoot bias must be in [0, 1]")
	}

	source := rand.NewSource(seed)
	return &EGreedy{
		epsilon:    e,
		decay:      decay,
		minEpsilon: minE,
		shootBias:  shootBias,
		seed:       source,
	}, nil
}

// SelectAction selects an action given the action values of the
// current state
func (p *EGreedy) SelectAction(values [agent.NumActions]float64) agent.Action {
	if p.explore() {
		// Construct a categorical distribution over actions using the
		// exploration bias
		probs := make([]float64, agent.NumActions)
		probs[agent.Wait] = 1.0 - p.shootBias
		probs[agent.Shoot] = p.shootBias
		dist := distuv.NewCategorical(probs, p.seed)

		return agent.Action(dist.Rand())
	}
	return Greedy(values)
}

// explore returns whether the next action should be exploratory
func (p *EGreedy) explore() bool {
	if p.epsilon <= 0 {
		return false
	}
	coin := distuv.Bernoulli{P: p.epsilon, Src: p.seed}
	return coin.Rand() == 1.0
}

// Greedy returns the greedy action, breaking ties towards Wait
func Greedy(values [agent.NumActions]float64) agent.Action {
	if values[agent.Shoot] > values[agent.Wait] {
		return agent.Shoot
	}
	return agent.Wait
}

// Epsilon returns the current exploration rate
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the current exploration rate, respecting the floor
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = math.Max(p.minEpsilon, math.Min(e, 1.0))
}

// Decay decays ε once and returns its new value
func (p *EGreedy) Decay() float64 {
	p.epsilon = math.Max(p.minEpsilon, p.epsilon*p.decay)
	return p.epsilon
}
