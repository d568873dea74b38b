package state

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

// Default bucket thresholds
const (
	CloseDistance  float64 = 3.0
	MediumDistance float64 = 6.0

	AlignedAngle float64 = 10.0 // degrees
	NearAngle    float64 = 30.0 // degrees

	LightWeight           float64 = 0.75
	MediumWeightThreshold float64 = 1.5
)

// Discretizer buckets continuous sensor readings into a Key. Distance
// and angle thresholds are strict upper bounds, weight thresholds are
// inclusive upper bounds.
type Discretizer struct {
	CloseDistance  float64
	MediumDistance float64
	AlignedAngle   float64
	NearAngle      float64
	LightWeight    float64
	MediumWeight   float64
}

// NewDiscretizer returns a Discretizer using the default thresholds
func NewDiscretizer() Discretizer {
	return Discretizer{
		CloseDistance:  CloseDistance,
		MediumDistance: MediumDistance,
		AlignedAngle:   AlignedAngle,
		NearAngle:      NearAngle,
		LightWeight:    LightWeight,
		MediumWeight:   MediumWeightThreshold,
	}
}

// Discretize returns the Key describing the nearest live target seen
// by the sensor, given the current actuator angle in degrees. Targets
// which have vanished are skipped, and NoTarget is returned if no live
// target remains.
func (d Discretizer) Discretize(sensor environment.Sensor,
	angle float64) Key {
	origin := sensor.Origin()

	nearest, ok := d.nearest(origin, sensor)
	if !ok {
		return NoTarget
	}

	distance := environment.Distance(origin, nearest.Position)
	bearing := environment.Bearing(origin, nearest.Position)
	angleDiff := environment.AngleDiff(angle, bearing)

	return New(
		d.distanceBucket(distance),
		d.alignmentBucket(angleDiff),
		nearest.Category,
		d.weightBucket(nearest.Weight),
	)
}

// nearest returns the nearest live target to origin
func (d Discretizer) nearest(origin r2.Vec,
	sensor environment.Sensor) (environment.Target, bool) {
	var nearest environment.Target
	found := false
	minDistance := math.Inf(1)

	for _, t := range sensor.VisibleTargets() {
		if !sensor.Alive(t.ID) {
			continue
		}

		dist := environment.Distance(origin, t.Position)
		if dist < minDistance {
			minDistance = dist
			nearest = t
			found = true
		}
	}
	return nearest, found
}

func (d Discretizer) distanceBucket(distance float64) DistanceBucket {
	switch {
	case distance < d.CloseDistance:
		return Close
	case distance < d.MediumDistance:
		return Medium
	default:
		return Far
	}
}

func (d Discretizer) alignmentBucket(angleDiff float64) AlignmentBucket {
	switch {
	case angleDiff < d.AlignedAngle:
		return Aligned
	case angleDiff < d.NearAngle:
		return Near
	default:
		return Misaligned
	}
}

func (d Discretizer) weightBucket(weight float64) WeightBucket {
	switch {
	case weight <= d.LightWeight:
		return Light
	case weight <= d.MediumWeight:
		return MediumWeight
	default:
		return Heavy
	}
}
