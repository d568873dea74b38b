package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/ropeduel/agent"
)

func TestGreedyTiesWait(t *testing.T) {
	tests := []struct {
		values [agent.NumActions]float64
		want   agent.Action
	}{
		{[agent.NumActions]float64{0, 0}, agent.Wait},
		{[agent.NumActions]float64{0.5, 0.5}, agent.Wait},
		{[agent.NumActions]float64{0.1, 0.2}, agent.Shoot},
		{[agent.NumActions]float64{0.3, -1}, agent.Wait},
	}

	p, err := NewEGreedy(0, 0.995, 0, 0.7, 1)
	if err != nil {
		t.Fatalf("newEGreedy: %v", err)
	}
	for _, test := range tests {
		if got := p.SelectAction(test.values); got != test.want {
			t.Errorf("values %v: want(%v) have(%v)", test.values, test.want,
				got)
		}
	}
}

func TestExplorationBias(t *testing.T) {
	p, _ := NewEGreedy(1.0, 1.0, 1.0, 0.7, 42)

	const n = 20000
	shots := 0
	for i := 0; i < n; i++ {
		// Wait is greedy, so every shot comes from exploration
		if p.SelectAction([agent.NumActions]float64{1, 0}) == agent.Shoot {
			shots++
		}
	}

	if frac := float64(shots) / n; math.Abs(frac-0.7) > 0.03 {
		t.Fatalf("exploration shoot fraction: want(~0.7) have(%v)", frac)
	}
}

func TestDecay(t *testing.T) {
	const (
		e0    = 0.9
		decay = 0.995
		minE  = 0.1
	)
	p, _ := NewEGreedy(e0, decay, minE, 0.7, 1)

	for n := 1; n <= 1000; n++ {
		got := p.Decay()
		want := math.Max(minE, e0*math.Pow(decay, float64(n)))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("episode %v: want(%v) have(%v)", n, want, got)
		}
	}

	if p.Epsilon() != minE {
		t.Fatalf("floor: want(%v) have(%v)", minE, p.Epsilon())
	}
}

func TestNewEGreedyInvalid(t *testing.T) {
	if _, err := NewEGreedy(1.5, 0.9, 0.1, 0.7, 1); err == nil {
		t.Errorf("expected error for epsilon > 1")
	}
	if _, err := NewEGreedy(0.5, 0, 0.1, 0.7, 1); err == nil {
		t.Errorf("expected error for decay 0")
	}
}
