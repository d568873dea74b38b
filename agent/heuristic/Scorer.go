// Package heuristic implements a greedy, scoring-based decision engine
// whose scoring weights are tuned externally
package heuristic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/ropeduel/environment"
)

const (
	// MinDistance floors the distance to a target when scoring
	MinDistance float64 = 0.1

	// minWeightProduct floors the product of a target's weight and the
	// weight penalty when scoring
	minWeightProduct float64 = 1e-3
)

// Weights parameterize the desirability score of a target
type Weights struct {
	ValueWeight    float64 `json:"value_weight"`
	DistanceWeight float64 `json:"distance_weight"`
	WeightPenalty  float64 `json:"weight_penalty"`

	// DistanceExponent determines whether DistanceWeight is used as an
	// exponent on the distance to a target. If false, DistanceWeight
	// has no effect on scores.
	DistanceExponent bool `json:"distance_exponent"`
}

// DefaultWeights returns neutral weights
func DefaultWeights() Weights {
	return Weights{ValueWeight: 1, DistanceWeight: 1, WeightPenalty: 1}
}

// Score returns the desirability of target t for an agent at origin:
//
//	score = (value * valueWeight / distance) * 1 / (weight * weightPenalty)
//
// where distance is floored at MinDistance.
func Score(t environment.Target, origin r2.Vec, w Weights) float64 {
	distance := math.Max(environment.Distance(origin, t.Position),
		MinDistance)
	if w.DistanceExponent {
		distance = math.Pow(distance, w.DistanceWeight)
	}

	weight := math.Max(t.Weight*w.WeightPenalty, minWeightProduct)

	return (float64(t.Value) * w.ValueWeight / distance) * (1.0 / weight)
}
