package environment

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Distance returns the euclidean distance between two points
func Distance(from, to r2.Vec) float64 {
	return math.Hypot(to.X-from.X, to.Y-from.Y)
}

// Bearing returns the angle in degrees at which an actuator placed at
// from must point to reach to. The angle is measured from straight
// down, so that a target directly below has a bearing of 0 and a
// target to the right has a positive bearing.
func Bearing(from, to r2.Vec) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return math.Atan2(dx, -dy) * 180.0 / math.Pi
}

// AngleDiff returns the absolute difference between two angles in
// degrees
func AngleDiff(a, b float64) float64 {
	return math.Abs(a - b)
}
