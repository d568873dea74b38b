package goldmine

import (
	"github.com/ByteArena/box2d"

	"github.com/samuelfneumann/ropeduel/environment"
)

// contact is a hook touching a target during a physics step
type contact struct {
	owner  Owner
	target environment.TargetID
}

// contactDetector records every hook/target contact that begins during
// a physics step. Bodies cannot be destroyed while the world is
// stepping, so contacts are resolved by the World afterwards.
type contactDetector struct {
	world *World
}

func newContactDetector(w *World) *contactDetector {
	return &contactDetector{w}
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	a := contact.GetFixtureA().GetBody()
	b := contact.GetFixtureB().GetBody()

	// Check if a hook touched a target
	if owner, ok := c.world.hookOwner(a); ok {
		c.record(owner, b)
	} else if owner, ok := c.world.hookOwner(b); ok {
		c.record(owner, a)
	}
}

func (c *contactDetector) record(owner Owner, body *box2d.B2Body) {
	id, ok := c.world.bodies[body]
	if !ok {
		return
	}
	c.world.contacts = append(c.world.contacts, contact{owner, id})
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}
func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}
