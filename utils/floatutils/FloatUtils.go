// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// MovingAverage returns the trailing moving average of values over a
// window of the given size. The first window-1 averages are taken over
// all values seen so far.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	averages := make([]float64, len(values))
	for i := range values {
		start := max(0, i-window+1)
		averages[i] = stat.Mean(values[start:i+1], nil)
	}
	return averages
}

// Tail returns at most the last n values
func Tail(values []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
