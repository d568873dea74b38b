package goldmine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rope is a pendulum which swings about its anchor until it is
// launched. A launched rope extends until it either hooks a target or
// reaches its maximum length, and then retracts back to its resting
// length, after which it swings again.
type Rope struct {
	config RopeConfig
	anchor r2.Vec

	angle     float64
	direction float64
	length    float64

	launched   bool
	retracting bool
	load       float64 // Weight of the hooked target, 0 if none
	hooked     bool
}

// NewRope returns a new resting Rope hanging straight down from anchor
func NewRope(c RopeConfig, anchor r2.Vec) *Rope {
	r := &Rope{config: c, anchor: anchor}
	r.Reset()
	return r
}

// Reset returns the rope to its resting state
func (r *Rope) Reset() {
	r.angle = 0
	r.direction = 1
	r.length = r.config.RestLength
	r.launched = false
	r.retracting = false
	r.load = 0
	r.hooked = false
}

// CurrentAngle returns the swing angle of the rope in degrees
func (r *Rope) CurrentAngle() float64 {
	return r.angle
}

// IsEngaged returns whether the rope has been launched and has not yet
// returned to rest
func (r *Rope) IsEngaged() bool {
	return r.launched
}

// Trigger launches the rope if it is at rest
func (r *Rope) Trigger() {
	if r.launched {
		return
	}
	r.launched = true
	r.retracting = false
}

// CanHook returns whether the rope can currently hook a target
func (r *Rope) CanHook() bool {
	return r.launched && !r.hooked
}

// Hook attaches a target of the given weight to the rope and starts
// retracting it
func (r *Rope) Hook(weight float64) {
	r.hooked = true
	r.load = weight
	r.retracting = true
}

// Length returns the current length of the rope
func (r *Rope) Length() float64 {
	return r.length
}

// Tip returns the position of the end of the rope
func (r *Rope) Tip() r2.Vec {
	rad := r.angle * math.Pi / 180.0
	return r2.Vec{
		X: r.anchor.X + r.length*math.Sin(rad),
		Y: r.anchor.Y - r.length*math.Cos(rad),
	}
}

// Step advances the rope dt seconds
func (r *Rope) Step(dt float64) {
	if !r.launched {
		r.swing(dt)
		return
	}

	if !r.retracting {
		r.length += r.config.ExtendSpeed * dt
		if r.length >= r.config.MaxLength {
			r.length = r.config.MaxLength
			r.retracting = true
		}
		return
	}

	// Heavy targets slow down the retraction
	speed := r.config.RetractSpeed / math.Max(1.0, r.load)
	r.length -= speed * dt
	if r.length <= r.config.RestLength {
		r.length = r.config.RestLength
		r.launched = false
		r.retracting = false
		r.hooked = false
		r.load = 0
	}
}

func (r *Rope) swing(dt float64) {
	r.angle += r.config.SwingSpeed * r.direction * dt

	if r.angle >= r.config.MaxSwingAngle {
		r.angle = r.config.MaxSwingAngle
		r.direction = -1
	} else if r.angle <= -r.config.MaxSwingAngle {
		r.angle = -r.config.MaxSwingAngle
		r.direction = 1
	}
}
