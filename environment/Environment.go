// Package environment outlines the interfaces and structs that decision
// engines use to sense and act upon a simulated world
package environment

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Starter implements a distribution of positions and samples positions
// at which entities of an environment are placed at the start of an
// episode
type Starter interface {
	Start() r2.Vec
}

// TargetID uniquely identifies a target within a single world. IDs are
// never reused, so a stale ID can always be detected through
// Sensor.Alive().
type TargetID uint64

// Target is a snapshot of a collectible entity as seen by a Sensor.
// Targets are referenced, never owned, by decision engines: a Target
// may disappear from the world between the time it is sensed and the
// time it is acted upon.
type Target struct {
	ID       TargetID
	Value    int     // Points awarded on collection
	Weight   float64 // Drag/cost factor of the target
	Category string
	Costly   bool // Whether collecting the target is undesirable
	Position r2.Vec
}

// Sensor reports the targets that an agent can currently reach
type Sensor interface {
	// Origin returns the position of the agent the Sensor is
	// attached to
	Origin() r2.Vec

	// VisibleTargets returns a fresh snapshot of all targets within
	// the detection radius of the agent
	VisibleTargets() []Target

	// Alive returns whether the target with the given ID still exists
	Alive(id TargetID) bool
}

// Actuator is the launching mechanism of an agent. The actuator
// continuously swings, and an action can be started when the actuator
// is not already engaged.
type Actuator interface {
	// CurrentAngle returns the current swing angle in degrees, measured
	// from straight down, positive towards the positive x-axis
	CurrentAngle() float64

	// IsEngaged returns whether an action is currently in flight
	IsEngaged() bool

	// Trigger begins an action. Trigger is fire-and-forget and is a
	// no-op if the actuator is already engaged.
	Trigger()
}
