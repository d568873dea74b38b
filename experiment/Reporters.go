package experiment

import (
	"github.com/samuelfneumann/ropeduel/agent/qlearning"
	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/evolution"
)

// QLearningReporter reports the learning progress of a Q-learning
// Engine
type QLearningReporter struct {
	Engine *qlearning.Engine
}

// Report implements the Reporter interface
func (q QLearningReporter) Report(r *episode.Result) {
	stats := q.Engine.Stats()
	r.Epsilon = stats.Epsilon
	r.QTableSize = stats.TableSize
	r.HitRate = stats.HitRate
}

// TunerReporter reports the progress of an evolution.Tuner
type TunerReporter struct {
	Tuner *evolution.Tuner
}

// Report implements the Reporter interface
func (t TunerReporter) Report(r *episode.Result) {
	r.Generation = t.Tuner.Generation()
	if best, ok := t.Tuner.BestEver(); ok {
		r.BestFitnessEver = best.Fitness
		r.BestChromosome = best.Genes()
	}
}
