package evolution

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Population is an ordered collection of Chromosomes
type Population []*Chromosome

// SortByFitness sorts the Population by descending fitness. The
// relative order of Chromosomes with equal fitness is preserved.
func (p Population) SortByFitness() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness > p[j].Fitness
	})
}

// Best returns the first Chromosome with the highest fitness, or nil if
// the Population is empty
func (p Population) Best() *Chromosome {
	if len(p) == 0 {
		return nil
	}

	best := p[0]
	for _, c := range p[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// Fitnesses returns the fitness of each Chromosome
func (p Population) Fitnesses() []float64 {
	fitnesses := make([]float64, len(p))
	for i, c := range p {
		fitnesses[i] = c.Fitness
	}
	return fitnesses
}

// Stats returns the highest and mean fitness of the Population
func (p Population) Stats() (best, mean float64) {
	if len(p) == 0 {
		return 0, 0
	}
	fitnesses := p.Fitnesses()
	return floats.Max(fitnesses), stat.Mean(fitnesses, nil)
}

// Clone returns a deep copy of the Population
func (p Population) Clone() Population {
	clone := make(Population, len(p))
	for i, c := range p {
		clone[i] = c.Clone()
	}
	return clone
}
