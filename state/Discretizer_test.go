package state

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

type sensor struct {
	origin  r2.Vec
	targets []environment.Target
	dead    map[environment.TargetID]bool
}

func (s sensor) Origin() r2.Vec                       { return s.origin }
func (s sensor) VisibleTargets() []environment.Target { return s.targets }
func (s sensor) Alive(id environment.TargetID) bool   { return !s.dead[id] }

func TestDiscretizeNearestGold(t *testing.T) {
	// Directly below the origin, so the bearing is 0
	s := sensor{
		targets: []environment.Target{
			{ID: 1, Category: "rock", Weight: 3.0, Position: r2.Vec{X: 0, Y: -8}},
			{ID: 2, Category: "gold", Weight: 0.5, Position: r2.Vec{X: 0, Y: -2}},
		},
	}

	key := NewDiscretizer().Discretize(s, 3.0)
	if got, want := key.String(), "close_aligned_gold_light"; got != want {
		t.Fatalf("key: want(%v) have(%v)", want, got)
	}
	if key != New(Close, Aligned, "gold", Light) {
		t.Fatalf("key fields: have(%+v)", key)
	}
}

func TestDiscretizeNoTarget(t *testing.T) {
	d := NewDiscretizer()
	if key := d.Discretize(sensor{}, 0); key != NoTarget {
		t.Fatalf("empty sensor: want(no_target) have(%v)", key)
	}

	s := sensor{
		targets: []environment.Target{{ID: 7, Category: "gold",
			Position: r2.Vec{X: 1, Y: -1}}},
		dead: map[environment.TargetID]bool{7: true},
	}
	if key := d.Discretize(s, 0); key.String() != "no_target" {
		t.Fatalf("vanished target: want(no_target) have(%v)", key)
	}
}

func TestDiscretizeSkipsVanished(t *testing.T) {
	s := sensor{
		targets: []environment.Target{
			{ID: 1, Category: "gold", Weight: 0.5, Position: r2.Vec{X: 0, Y: -1}},
			{ID: 2, Category: "rock", Weight: 2.0, Position: r2.Vec{X: 0, Y: -4}},
		},
		dead: map[environment.TargetID]bool{1: true},
	}

	key := NewDiscretizer().Discretize(s, 0)
	if got, want := key.String(), "medium_aligned_rock_heavy"; got != want {
		t.Fatalf("key: want(%v) have(%v)", want, got)
	}
}

func TestBuckets(t *testing.T) {
	d := NewDiscretizer()

	distances := []struct {
		in   float64
		want DistanceBucket
	}{{2.99, Close}, {3.0, Medium}, {5.99, Medium}, {6.0, Far}}
	for _, test := range distances {
		if got := d.distanceBucket(test.in); got != test.want {
			t.Errorf("distance %v: want(%v) have(%v)", test.in, test.want, got)
		}
	}

	angles := []struct {
		in   float64
		want AlignmentBucket
	}{{0, Aligned}, {9.99, Aligned}, {10, Near}, {29.9, Near}, {30, Misaligned}}
	for _, test := range angles {
		if got := d.alignmentBucket(test.in); got != test.want {
			t.Errorf("angle %v: want(%v) have(%v)", test.in, test.want, got)
		}
	}

	weights := []struct {
		in   float64
		want WeightBucket
	}{{0.75, Light}, {0.76, MediumWeight}, {1.5, MediumWeight}, {1.51, Heavy}}
	for _, test := range weights {
		if got := d.weightBucket(test.in); got != test.want {
			t.Errorf("weight %v: want(%v) have(%v)", test.in, test.want, got)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	keys := []Key{NoTarget, Terminal, New(Far, Near, "rock", Heavy)}
	for _, key := range keys {
		parsed, ok := Parse(key.String())
		if !ok || parsed != key {
			t.Errorf("parse %v: have(%+v, %v)", key, parsed, ok)
		}
	}

	if _, ok := Parse("close_aligned"); ok {
		t.Errorf("parse: expected malformed key to be rejected")
	}
}
