package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalSampler samples indices in (0, 1, 2, ... N-1) from a
// categorical distribution
type CategoricalSampler struct {
	n    int
	rand distuv.Categorical
}

// NewCategoricalSampler returns a new CategoricalSampler which samples
// index i with probability proportional to weights[i]. If weights is
// nil, the n indices are sampled uniformly.
func NewCategoricalSampler(n int, weights []float64,
	src rand.Source) CategoricalSampler {
	if weights == nil {
		// Create the weights for the uniform categorical distribution
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
	}

	return CategoricalSampler{n, distuv.NewCategorical(weights, src)}
}

// Sample returns a sampled index
func (c CategoricalSampler) Sample() int {
	return int(c.rand.Rand())
}

// Len returns the number of categories
func (c CategoricalSampler) Len() int {
	return c.n
}
