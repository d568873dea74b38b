// Package evolution implements a generational genetic algorithm which
// tunes the scoring weights of the heuristic decision engine
package evolution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/ropeduel/agent/heuristic"
	"github.com/samuelfneumann/ropeduel/utils/floatutils"
)

var (
	// GeneBounds bounds every gene of every Chromosome
	GeneBounds = r1.Interval{Min: 0.1, Max: 5.0}

	// InitialGeneBounds bounds the genes of random Chromosomes
	InitialGeneBounds = r1.Interval{Min: 0.5, Max: 2.5}
)

// NumGenes is the number of genes in a Chromosome
const NumGenes int = 3

// Chromosome is a candidate set of heuristic weights together with the
// fitness it earned
type Chromosome struct {
	ValueWeight    float64 `json:"value_weight"`
	DistanceWeight float64 `json:"distance_weight"`
	WeightPenalty  float64 `json:"weight_penalty"`
	Fitness        float64 `json:"fitness"`
}

// NewChromosome returns a new Chromosome with the given genes, clamped
// to GeneBounds
func NewChromosome(valueWeight, distanceWeight,
	weightPenalty float64) *Chromosome {
	c := &Chromosome{
		ValueWeight:    valueWeight,
		DistanceWeight: distanceWeight,
		WeightPenalty:  weightPenalty,
	}
	c.clamp()
	return c
}

// NewRandom returns a new Chromosome with genes sampled uniformly from
// InitialGeneBounds
func NewRandom(src rand.Source) *Chromosome {
	dist := distuv.Uniform{
		Min: InitialGeneBounds.Min,
		Max: InitialGeneBounds.Max,
		Src: src,
	}
	return NewChromosome(dist.Rand(), dist.Rand(), dist.Rand())
}

// genes returns pointers to each gene of the Chromosome
func (c *Chromosome) genes() [NumGenes]*float64 {
	return [NumGenes]*float64{&c.ValueWeight, &c.DistanceWeight,
		&c.WeightPenalty}
}

// Genes returns the gene values of the Chromosome
func (c *Chromosome) Genes() [NumGenes]float64 {
	return [NumGenes]float64{c.ValueWeight, c.DistanceWeight,
		c.WeightPenalty}
}

// clamp clips all genes to GeneBounds
func (c *Chromosome) clamp() {
	for _, gene := range c.genes() {
		*gene = floatutils.ClipInterval(*gene, GeneBounds)
	}
}

// Clone returns a deep copy of the Chromosome, including its fitness
func (c *Chromosome) Clone() *Chromosome {
	clone := *c
	return &clone
}

// Crossover returns a new Chromosome which inherits each gene
// independently from either parent with equal probability. The child
// has zero fitness.
func Crossover(a, b *Chromosome, src rand.Source) *Chromosome {
	coin := distuv.Bernoulli{P: 0.5, Src: src}

	child := &Chromosome{}
	childGenes := child.genes()
	aGenes, bGenes := a.Genes(), b.Genes()
	for i := range childGenes {
		if coin.Rand() == 1.0 {
			*childGenes[i] = aGenes[i]
		} else {
			*childGenes[i] = bGenes[i]
		}
	}
	return child
}

// Mutate perturbs each gene independently with probability rate by a
// delta sampled uniformly from [-amount, amount]. Genes are clamped to
// GeneBounds afterwards.
func (c *Chromosome) Mutate(rate, amount float64, src rand.Source) {
	amount = math.Abs(amount)
	coin := distuv.Bernoulli{P: floatutils.Clip(rate, 0, 1), Src: src}
	delta := distuv.Uniform{Min: -amount, Max: amount, Src: src}

	for _, gene := range c.genes() {
		if coin.Rand() != 1.0 {
			continue
		}

		mutated := *gene + delta.Rand()
		if math.IsNaN(mutated) {
			continue
		}
		*gene = mutated
	}
	c.clamp()
}

// Weights returns the heuristic weights encoded by the Chromosome
func (c *Chromosome) Weights() heuristic.Weights {
	return heuristic.Weights{
		ValueWeight:    c.ValueWeight,
		DistanceWeight: c.DistanceWeight,
		WeightPenalty:  c.WeightPenalty,
	}
}

func (c *Chromosome) String() string {
	return fmt.Sprintf("Chromosome | Value: %.3f  |  Distance: %.3f  |  "+
		"Penalty: %.3f  |  Fitness: %.1f", c.ValueWeight, c.DistanceWeight,
		c.WeightPenalty, c.Fitness)
}
