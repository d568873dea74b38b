package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples positions uniformly from an axis-aligned box
type UniformStarter struct {
	bounds [2]r1.Interval
	rand   *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples x
// coordinates from xBounds and y coordinates from yBounds
func NewUniformStarter(xBounds, yBounds r1.Interval,
	seed uint64) *UniformStarter {
	source := rand.NewSource(seed)
	bounds := []r1.Interval{xBounds, yBounds}
	dist := distmv.NewUniform(bounds, source)

	return &UniformStarter{[2]r1.Interval{xBounds, yBounds}, dist}
}

// Start samples a new position
func (u *UniformStarter) Start() r2.Vec {
	pos := u.rand.Rand(nil)
	return r2.Vec{X: pos[0], Y: pos[1]}
}

// Bounds returns the box from which positions are sampled
func (u *UniformStarter) Bounds() (x, y r1.Interval) {
	return u.bounds[0], u.bounds[1]
}
