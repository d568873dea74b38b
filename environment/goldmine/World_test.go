package goldmine

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

const dt = 1.0 / 50.0

func newWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(DefaultConfig(), nil, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return w
}

// emptyWorld returns a World with no targets
func emptyWorld(t *testing.T) *World {
	t.Helper()
	w := newWorld(t)
	w.Reset()
	for _, target := range w.Targets() {
		w.remove(target.ID)
	}
	return w
}

func TestResetSpawnCounts(t *testing.T) {
	w := newWorld(t)
	c := DefaultConfig()

	for i := 0; i < 50; i++ {
		w.Reset()

		var gold, rocks int
		for _, target := range w.Targets() {
			switch target.Category {
			case Gold:
				gold++
				if target.Costly {
					t.Fatalf("gold should not be costly")
				}
			case Rock:
				rocks++
			}

			if target.Position.X < c.XBounds.Min ||
				target.Position.X > c.XBounds.Max ||
				target.Position.Y < c.YBounds.Min ||
				target.Position.Y > c.YBounds.Max {
				t.Fatalf("target spawned out of bounds: %v", target.Position)
			}
		}

		if gold < c.GoldCount.Min || gold > c.GoldCount.Max {
			t.Fatalf("gold count %v out of range", gold)
		}
		if rocks < c.RockCount.Min || rocks > c.RockCount.Max {
			t.Fatalf("rock count %v out of range", rocks)
		}
		if w.Rig(QLearning).Score() != 0 || w.Rig(Heuristic).Score() != 0 {
			t.Fatalf("scores not reset")
		}
	}
}

func TestRopeSwings(t *testing.T) {
	c := DefaultConfig().Rope
	r := NewRope(c, r2.Vec{})

	r.Step(0.5)
	if r.CurrentAngle() != 25 {
		t.Fatalf("angle: want(25) have(%v)", r.CurrentAngle())
	}

	for i := 0; i < 1000; i++ {
		r.Step(dt)
		if r.CurrentAngle() > c.MaxSwingAngle ||
			r.CurrentAngle() < -c.MaxSwingAngle {
			t.Fatalf("angle %v exceeds swing bounds", r.CurrentAngle())
		}
	}
}

func TestRopeLaunchCycle(t *testing.T) {
	c := DefaultConfig().Rope
	r := NewRope(c, r2.Vec{})

	r.Trigger()
	if !r.IsEngaged() {
		t.Fatalf("rope should be engaged after trigger")
	}

	var steps int
	for r.IsEngaged() {
		angle := r.CurrentAngle()
		r.Step(dt)
		if r.CurrentAngle() != angle {
			t.Fatalf("engaged rope should not swing")
		}
		if r.Length() > c.MaxLength {
			t.Fatalf("rope length %v exceeds maximum", r.Length())
		}

		steps++
		if steps > 1000 {
			t.Fatalf("rope never returned to rest")
		}
	}

	if r.Length() != c.RestLength {
		t.Fatalf("length at rest: want(%v) have(%v)", c.RestLength, r.Length())
	}
}

func TestHeavyLoadRetractsSlower(t *testing.T) {
	c := DefaultConfig().Rope
	light, heavy := NewRope(c, r2.Vec{}), NewRope(c, r2.Vec{})

	for _, r := range []*Rope{light, heavy} {
		r.Trigger()
		r.Step(0.5)
	}
	light.Hook(0.5)
	heavy.Hook(2.5)
	light.Step(0.1)
	heavy.Step(0.1)

	if heavy.Length() <= light.Length() {
		t.Fatalf("heavy load should retract slower: light %v heavy %v",
			light.Length(), heavy.Length())
	}
}

func TestCollection(t *testing.T) {
	w := emptyWorld(t)
	rig := w.Rig(QLearning)
	anchor := rig.Origin()

	below := r2.Vec{X: anchor.X, Y: anchor.Y - 3}
	id := w.Spawn(GoldKinds[2], below)
	far := w.Spawn(RockKinds[0], r2.Vec{X: 8, Y: -4.5})

	rig.Trigger()
	var collected []Collection
	for i := 0; i < 200 && len(collected) == 0; i++ {
		collected = w.Step(dt)
	}

	if len(collected) != 1 {
		t.Fatalf("collections: want(1) have(%v)", len(collected))
	}
	if collected[0].Owner != QLearning || collected[0].Target.ID != id {
		t.Fatalf("collection: have(%+v)", collected[0])
	}
	if rig.Score() != GoldKinds[2].Value {
		t.Fatalf("score: want(%v) have(%v)", GoldKinds[2].Value, rig.Score())
	}
	if rig.Alive(id) {
		t.Fatalf("collected target should no longer be alive")
	}
	if !rig.Alive(far) {
		t.Fatalf("untouched target should be alive")
	}
	if !rig.IsEngaged() {
		t.Fatalf("rope should still be retracting")
	}
	if w.Rig(Heuristic).Score() != 0 {
		t.Fatalf("other rig should not score")
	}
}

func TestMissedLaunchCollectsNothing(t *testing.T) {
	w := emptyWorld(t)
	rig := w.Rig(Heuristic)
	rig.Trigger()

	for i := 0; i < 500; i++ {
		if collected := w.Step(dt); len(collected) != 0 {
			t.Fatalf("collected from an empty world: %v", collected)
		}
	}
	if rig.IsEngaged() {
		t.Fatalf("rope should have returned to rest")
	}
}

func TestVisibleTargets(t *testing.T) {
	w := emptyWorld(t)
	rig := w.Rig(QLearning)
	anchor := rig.Origin()

	near := w.Spawn(GoldKinds[0], r2.Vec{X: anchor.X + 1, Y: anchor.Y - 2})
	w.Spawn(GoldKinds[0], r2.Vec{X: anchor.X + 20, Y: anchor.Y})

	visible := rig.VisibleTargets()
	if len(visible) != 1 || visible[0].ID != near {
		t.Fatalf("visible targets: have(%v)", visible)
	}

	var _ environment.Sensor = rig
	var _ environment.Actuator = rig
}
