// Package goldmine implements a headless gold mine: a field of gold and
// rocks which two rope-launching rigs compete to collect
package goldmine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/ropeduel/environment"
)

// Physics solver iterations per step
const (
	VelocityIterations = 6
	PositionIterations = 2
)

// Owner identifies one of the two rigs of a World
type Owner int

const (
	QLearning Owner = iota
	Heuristic
)

// NumOwners is the number of rigs in a World
const NumOwners = 2

func (o Owner) String() string {
	switch o {
	case QLearning:
		return "QLearning"
	case Heuristic:
		return "Heuristic"
	}
	return fmt.Sprintf("Owner(%d)", int(o))
}

// Collection is a target collected by a rig during a Step
type Collection struct {
	Owner  Owner
	Target environment.Target
}

// target is a collectible placed in the world
type target struct {
	environment.Target
	body *box2d.B2Body
}

// World is a gold mine. Targets are spawned at the start of each
// episode and are removed once a rig hooks them. Hook and target
// overlaps are detected by box2d sensor contacts.
type World struct {
	config Config
	logger *slog.Logger

	world     box2d.B2World
	positions *environment.UniformStarter
	goldCount distuv.Uniform
	rockCount distuv.Uniform
	goldKind  environment.CategoricalSampler
	rockKind  environment.CategoricalSampler

	rigs   [NumOwners]*Rig
	hooks  [NumOwners]*box2d.B2Body
	nextID environment.TargetID

	targets  map[environment.TargetID]*target
	bodies   map[*box2d.B2Body]environment.TargetID
	contacts []contact

	elapsed float64
}

// New returns a new World. Reset() must be called to spawn targets
// before the first episode.
func New(c Config, logger *slog.Logger, seed uint64) (*World, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src := rand.NewSource(seed)
	w := &World{
		config: c,
		logger: logger.With("component", "world"),

		world:     box2d.MakeB2World(box2d.B2Vec2{X: 0, Y: 0}),
		positions: environment.NewUniformStarter(c.XBounds, c.YBounds, seed+1),
		goldCount: countDist(c.GoldCount, src),
		rockCount: countDist(c.RockCount, src),
		goldKind:  environment.NewCategoricalSampler(len(GoldKinds), nil, src),
		rockKind:  environment.NewCategoricalSampler(len(RockKinds), nil, src),

		targets: make(map[environment.TargetID]*target),
		bodies:  make(map[*box2d.B2Body]environment.TargetID),
	}
	w.world.SetContactListener(newContactDetector(w))

	for i := range w.rigs {
		owner := Owner(i)
		w.rigs[i] = &Rig{
			world: w,
			owner: owner,
			rope:  NewRope(c.Rope, c.Anchors[i]),
		}
		w.hooks[i] = w.createHook(w.rigs[i].rope.Tip())
	}

	return w, nil
}

// countDist returns a distribution over the integers of r, which
// are obtained by flooring samples
func countDist(r Range, src rand.Source) distuv.Uniform {
	return distuv.Uniform{
		Min: float64(r.Min),
		Max: float64(r.Max) + 1,
		Src: src,
	}
}

func sampleCount(dist distuv.Uniform, r Range) int {
	n := int(math.Floor(dist.Rand()))
	return min(max(n, r.Min), r.Max)
}

// createHook creates the body which detects the targets touched by the
// end of a rope
func (w *World) createHook(pos r2.Vec) *box2d.B2Body {
	hookDef := box2d.NewB2BodyDef()
	hookDef.Type = 2 // Dynamic body
	hookDef.Position.Set(pos.X, pos.Y)
	hookDef.AllowSleep = false
	hookDef.GravityScale = 0
	hook := w.world.CreateBody(hookDef)

	hookShape := box2d.NewB2CircleShape()
	hookShape.M_radius = w.config.HookRadius

	hookFixture := box2d.MakeB2FixtureDef()
	hookFixture.Shape = hookShape
	hookFixture.IsSensor = true
	hook.CreateFixtureFromDef(&hookFixture)

	return hook
}

// hookOwner returns the owner of body if body is a hook
func (w *World) hookOwner(body *box2d.B2Body) (Owner, bool) {
	for i, hook := range w.hooks {
		if hook == body {
			return Owner(i), true
		}
	}
	return 0, false
}

// Reset removes all targets and spawns a fresh set, returning all rigs
// to rest with zero score
func (w *World) Reset() {
	for id := range w.targets {
		w.remove(id)
	}
	w.contacts = w.contacts[:0]
	w.elapsed = 0

	for i, rig := range w.rigs {
		rig.reset()
		w.moveHook(Owner(i))
	}

	gold := sampleCount(w.goldCount, w.config.GoldCount)
	for i := 0; i < gold; i++ {
		w.Spawn(GoldKinds[w.goldKind.Sample()], w.positions.Start())
	}

	rocks := sampleCount(w.rockCount, w.config.RockCount)
	for i := 0; i < rocks; i++ {
		w.Spawn(RockKinds[w.rockKind.Sample()], w.positions.Start())
	}

	w.logger.Debug("world reset", "gold", gold, "rocks", rocks)
}

// Spawn places a target of kind k at pos and returns its ID
func (w *World) Spawn(k Kind, pos r2.Vec) environment.TargetID {
	w.nextID++
	id := w.nextID

	bodyDef := box2d.NewB2BodyDef()
	bodyDef.Type = 0 // Static body
	bodyDef.Position.Set(pos.X, pos.Y)
	body := w.world.CreateBody(bodyDef)

	shape := box2d.NewB2CircleShape()
	shape.M_radius = k.Radius

	fixture := box2d.MakeB2FixtureDef()
	fixture.Shape = shape
	fixture.IsSensor = true
	body.CreateFixtureFromDef(&fixture)

	w.targets[id] = &target{
		Target: environment.Target{
			ID:       id,
			Value:    k.Value,
			Weight:   k.Weight,
			Category: k.Category,
			Costly:   k.Costly,
			Position: pos,
		},
		body: body,
	}
	w.bodies[body] = id
	return id
}

// remove destroys a target
func (w *World) remove(id environment.TargetID) {
	t, ok := w.targets[id]
	if !ok {
		return
	}
	delete(w.bodies, t.body)
	delete(w.targets, id)
	w.world.DestroyBody(t.body)
}

func (w *World) moveHook(o Owner) {
	tip := w.rigs[o].rope.Tip()
	w.hooks[o].SetTransform(box2d.MakeB2Vec2(tip.X, tip.Y), 0)
}

// Step advances the world dt seconds and returns the targets collected
// during the step
func (w *World) Step(dt float64) []Collection {
	w.elapsed += dt
	for i, rig := range w.rigs {
		rig.rope.Step(dt)
		w.moveHook(Owner(i))
	}

	w.world.Step(dt, VelocityIterations, PositionIterations)

	var collected []Collection
	for _, c := range w.contacts {
		rig := w.rigs[c.owner]
		t, ok := w.targets[c.target]
		if !ok || !rig.rope.CanHook() {
			continue
		}

		collected = append(collected, Collection{c.owner, t.Target})
		rig.score += t.Value
		rig.rope.Hook(t.Weight)
		w.remove(c.target)

		w.logger.Debug("target collected", "owner", c.owner,
			"category", t.Category, "value", t.Value)
	}
	w.contacts = w.contacts[:0]

	return collected
}

// Rig returns the rig of owner o
func (w *World) Rig(o Owner) *Rig {
	return w.rigs[o]
}

// Score returns the points collected by the rig of owner o since the
// last Reset()
func (w *World) Score(o Owner) int {
	return w.rigs[o].score
}

// Elapsed returns the simulated time since the last Reset()
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Remaining returns the number of targets left in the world
func (w *World) Remaining() int {
	return len(w.targets)
}

// GoldRemaining returns whether any gold is left in the world
func (w *World) GoldRemaining() bool {
	for _, t := range w.targets {
		if t.Category == Gold {
			return true
		}
	}
	return false
}

// Targets returns a snapshot of all targets, ordered by ID
func (w *World) Targets() []environment.Target {
	targets := make([]environment.Target, 0, len(w.targets))
	for _, t := range w.targets {
		targets = append(targets, t.Target)
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].ID < targets[j].ID
	})
	return targets
}

// Alive returns whether the target with the given ID still exists
func (w *World) Alive(id environment.TargetID) bool {
	_, ok := w.targets[id]
	return ok
}
