package heuristic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

type rig struct {
	targets  []environment.Target
	dead     map[environment.TargetID]bool
	angle    float64
	engaged  bool
	triggers int
}

func (r *rig) Origin() r2.Vec                       { return r2.Vec{} }
func (r *rig) VisibleTargets() []environment.Target { return r.targets }
func (r *rig) Alive(id environment.TargetID) bool   { return !r.dead[id] }
func (r *rig) CurrentAngle() float64                { return r.angle }
func (r *rig) IsEngaged() bool                      { return r.engaged }
func (r *rig) Trigger()                             { r.triggers++ }

type tuner struct {
	weights Weights
	scores  []int
}

func (t *tuner) ActiveWeights() (Weights, bool) { return t.weights, true }
func (t *tuner) RecordResult(score int)         { t.scores = append(t.scores, score) }

func TestScoreFloorsDistance(t *testing.T) {
	targets := []environment.Target{
		{Value: 500, Weight: 2.0, Position: r2.Vec{}},
		{Value: 500, Weight: 0.0, Position: r2.Vec{X: 0.01}},
		{Value: 50, Weight: 0.5, Position: r2.Vec{X: 1e-12, Y: -1e-12}},
	}

	for _, target := range targets {
		score := Score(target, r2.Vec{}, DefaultWeights())
		if math.IsInf(score, 0) || math.IsNaN(score) {
			t.Errorf("score of %+v: have(%v)", target, score)
		}
	}

	got := Score(targets[0], r2.Vec{}, DefaultWeights())
	if want := 500.0 / MinDistance / 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("floored score: want(%v) have(%v)", want, got)
	}
}

func TestScore(t *testing.T) {
	target := environment.Target{Value: 100, Weight: 0.5,
		Position: r2.Vec{X: 0, Y: -2}}

	w := Weights{ValueWeight: 2, DistanceWeight: 2, WeightPenalty: 2}
	if got, want := Score(target, r2.Vec{}, w), 100.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("score: want(%v) have(%v)", want, got)
	}

	w.DistanceExponent = true
	if got, want := Score(target, r2.Vec{}, w), 50.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("score with distance exponent: want(%v) have(%v)", want, got)
	}
}

func TestSelectsBestFirstSeen(t *testing.T) {
	r := &rig{
		angle: 90, // never aligned
		targets: []environment.Target{
			{ID: 1, Value: 50, Weight: 0.5, Position: r2.Vec{X: 0, Y: -4}},
			{ID: 2, Value: 500, Weight: 2.0, Position: r2.Vec{X: 2, Y: -2}},
			{ID: 3, Value: 500, Weight: 2.0, Position: r2.Vec{X: -2, Y: -2}},
		},
	}
	c, _ := NewController(DefaultConfig(), r, r, nil, nil)

	c.OnTick(0.5)
	id, ok := c.Target()
	if !ok || id != 2 {
		t.Fatalf("selected target: want(2) have(%v, %v)", id, ok)
	}
	if c.State() != AwaitingAlignment {
		t.Fatalf("state: want(%v) have(%v)", AwaitingAlignment, c.State())
	}
	if r.triggers != 0 {
		t.Fatalf("triggered while misaligned")
	}
}

func TestTriggersWhenAligned(t *testing.T) {
	r := &rig{
		angle: 20,
		targets: []environment.Target{
			{ID: 1, Value: 150, Weight: 1.0, Position: r2.Vec{X: 0, Y: -3}},
		},
	}
	c, _ := NewController(DefaultConfig(), r, r, nil, nil)

	c.OnTick(0.5)
	if r.triggers != 0 || c.State() != AwaitingAlignment {
		t.Fatalf("misaligned: triggers %v, state %v", r.triggers, c.State())
	}

	// Alignment is checked every tick, not only on decision ticks
	r.angle = 4.9
	c.OnTick(0.01)
	if r.triggers != 1 {
		t.Fatalf("aligned: want 1 trigger, have(%v)", r.triggers)
	}
	if c.State() != Idle {
		t.Fatalf("state after trigger: want(%v) have(%v)", Idle, c.State())
	}
}

func TestNoTargetNoAction(t *testing.T) {
	r := &rig{}
	c, _ := NewController(DefaultConfig(), r, r, nil, nil)

	for i := 0; i < 10; i++ {
		c.OnTick(0.5)
	}
	if _, ok := c.Target(); ok || r.triggers != 0 {
		t.Fatalf("no targets: selected %v, triggers %v", ok, r.triggers)
	}
}

func TestStaleTargetReleased(t *testing.T) {
	r := &rig{
		angle: 45,
		targets: []environment.Target{
			{ID: 9, Value: 150, Weight: 1.0, Position: r2.Vec{X: 0, Y: -3}},
		},
		dead: map[environment.TargetID]bool{},
	}
	c, _ := NewController(DefaultConfig(), r, r, nil, nil)
	c.OnTick(0.5)

	// The target is collected by the opponent, then the actuator swings
	// through its old bearing
	r.dead[9] = true
	r.angle = 0
	c.OnTick(0.01)

	if r.triggers != 0 {
		t.Fatalf("triggered on a vanished target")
	}
	if c.State() != Idle {
		t.Fatalf("state: want(%v) have(%v)", Idle, c.State())
	}
}

func TestEngagedSuspends(t *testing.T) {
	r := &rig{
		engaged: true,
		targets: []environment.Target{
			{ID: 1, Value: 150, Weight: 1.0, Position: r2.Vec{X: 0, Y: -3}},
		},
	}
	c, _ := NewController(DefaultConfig(), r, r, nil, nil)

	for i := 0; i < 10; i++ {
		c.OnTick(0.5)
	}
	if _, ok := c.Target(); ok || r.triggers != 0 {
		t.Fatalf("engaged actuator: selected %v, triggers %v", ok, r.triggers)
	}
}

func TestTunerWiring(t *testing.T) {
	r := &rig{}
	tn := &tuner{weights: Weights{ValueWeight: 3, DistanceWeight: 2,
		WeightPenalty: 0.5}}
	c, _ := NewController(DefaultConfig(), r, r, tn, nil)

	c.OnEpisodeStart()
	if got := c.Weights(); got.ValueWeight != 3 || got.WeightPenalty != 0.5 {
		t.Fatalf("weights: have(%+v)", got)
	}

	c.OnEpisodeEnd(420)
	c.OnEpisodeEnd(420)
	if len(tn.scores) != 1 || tn.scores[0] != 420 {
		t.Fatalf("recorded scores: have(%v)", tn.scores)
	}
}

func TestAbortDoesNotReport(t *testing.T) {
	r := &rig{targets: []environment.Target{{ID: 1, Value: 100}}}
	tn := &tuner{weights: DefaultWeights()}
	c, _ := NewController(DefaultConfig(), r, r, tn, nil)

	c.OnEpisodeStart()
	c.OnEpisodeAbort()
	if len(tn.scores) != 0 {
		t.Fatalf("aborted episode was reported: have(%v)", tn.scores)
	}

	// No action is taken until the next episode starts
	c.OnTick(10)
	if r.triggers != 0 || c.State() != Idle {
		t.Fatalf("aborted controller acted: triggers %v state %v",
			r.triggers, c.State())
	}

	c.OnEpisodeStart()
	c.OnEpisodeEnd(30)
	if len(tn.scores) != 1 || tn.scores[0] != 30 {
		t.Fatalf("recorded scores: have(%v)", tn.scores)
	}
}

func TestMissingDependency(t *testing.T) {
	c, err := NewController(DefaultConfig(), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("newController: %v", err)
	}
	c.OnTick(1)
	c.OnEpisodeEnd(0)
}
