// Package trackers implements Trackers, which track and save data from
// the episodes of an experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/experiment/tracker"
)

// ScoreData is the data saved by a Scores Tracker
type ScoreData struct {
	QLearning []float64
	Heuristic []float64
	Epsilon   []float64
}

// Scores tracks the final score of both sides of each episode, as well
// as the exploration rate of the Q-learning side, and saves them in gob
// format.
//
// Note: the results of an episode are only tracked once the episode
// has finished.
type Scores struct {
	data     ScoreData
	filename string
}

// NewScores creates and returns a new *Scores Tracker
func NewScores(filename string) *Scores {
	return &Scores{filename: filename}
}

// Track caches the scores of a finished episode
func (s *Scores) Track(r episode.Result) error {
	s.data.QLearning = append(s.data.QLearning, float64(r.QLearningScore))
	s.data.Heuristic = append(s.data.Heuristic, float64(r.HeuristicScore))
	s.data.Epsilon = append(s.data.Epsilon, r.Epsilon)
	return nil
}

// Data returns the cached data
func (s *Scores) Data() ScoreData {
	return s.data
}

// Save saves the data tracked by the Scores Tracker to disk.
func (s *Scores) Save() error {
	// Open the file to save to
	file, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	// Encode and save the file
	if err := gob.NewEncoder(file).Encode(s.data); err != nil {
		return fmt.Errorf("save: could not encode score data: %w", err)
	}
	return nil
}

// LoadScores loads the data saved by a Scores Tracker
func LoadScores(filename string) (ScoreData, error) {
	return tracker.LoadData[ScoreData](filename)
}
