// Package tracker implements Trackers, which track and save the
// results of the episodes in an experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/ropeduel/episode"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Track is called once at the end
// of each episode.
type Tracker interface {
	Track(r episode.Result) error
	Save() error
}

// LoadData loads and returns data saved in gob format by a Tracker
func LoadData[T any](filename string) (T, error) {
	var data T

	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return data, fmt.Errorf("loadData: could not open data file: %w",
			err)
	}
	defer file.Close()

	// Decode the data
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return data, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}
