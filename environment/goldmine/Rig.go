package goldmine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

// Rig is a rope anchored in a World together with the score it has
// collected. A Rig implements both the environment.Sensor and the
// environment.Actuator interfaces.
type Rig struct {
	world *World
	owner Owner
	rope  *Rope
	score int
}

func (r *Rig) reset() {
	r.rope.Reset()
	r.score = 0
}

// Owner returns the owner of the Rig
func (r *Rig) Owner() Owner {
	return r.owner
}

// Score returns the points collected since the last reset
func (r *Rig) Score() int {
	return r.score
}

// Rope returns the rope of the Rig
func (r *Rig) Rope() *Rope {
	return r.rope
}

// Origin implements the environment.Sensor interface
func (r *Rig) Origin() r2.Vec {
	return r.rope.anchor
}

// VisibleTargets implements the environment.Sensor interface. Targets
// are ordered by ID.
func (r *Rig) VisibleTargets() []environment.Target {
	var visible []environment.Target
	for _, t := range r.world.Targets() {
		d := environment.Distance(r.rope.anchor, t.Position)
		if d <= r.world.config.DetectionRadius {
			visible = append(visible, t)
		}
	}
	return visible
}

// Alive implements the environment.Sensor interface
func (r *Rig) Alive(id environment.TargetID) bool {
	return r.world.Alive(id)
}

// CurrentAngle implements the environment.Actuator interface
func (r *Rig) CurrentAngle() float64 {
	return r.rope.CurrentAngle()
}

// IsEngaged implements the environment.Actuator interface
func (r *Rig) IsEngaged() bool {
	return r.rope.IsEngaged()
}

// Trigger implements the environment.Actuator interface
func (r *Rig) Trigger() {
	r.rope.Trigger()
}
