package evolution

import (
	"golang.org/x/exp/rand"
)

// DefaultTournamentSize is the number of Chromosomes sampled per
// tournament
const DefaultTournamentSize int = 3

// TournamentSelect samples k Chromosomes from p uniformly at random with
// replacement and returns the fittest of them. Ties are won by the
// Chromosome sampled first. If k is at least the size of p, the
// fittest Chromosome of p is returned without sampling. TournamentSelect
// returns nil if p is empty.
func TournamentSelect(p Population, k int, rng *rand.Rand) *Chromosome {
	if len(p) == 0 {
		return nil
	}
	if k >= len(p) {
		return p.Best()
	}
	if k < 1 {
		k = 1
	}

	var best *Chromosome
	for i := 0; i < k; i++ {
		candidate := p[rng.Intn(len(p))]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}
