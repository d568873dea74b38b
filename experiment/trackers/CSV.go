package trackers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samuelfneumann/ropeduel/episode"
)

// Header is the header row of the CSV log
var Header = []string{
	"RunID", "GameNumber", "QLearningScore", "HeuristicScore", "Winner",
	"QLearningEpsilon", "QTableSize", "HitRate", "GAGeneration",
	"GABestFitness", "BestValueWeight", "BestDistanceWeight",
	"BestWeightPenalty", "Timestamp",
}

// CSV appends one row per episode to a CSV file. The header is written
// only if the file is empty, so that consecutive runs extend the same
// log. Rows are flushed as soon as they are tracked.
type CSV struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSV opens filename for appending and returns a new *CSV Tracker
func NewCSV(filename string) (*CSV, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644)
	if err != nil {
		return nil, fmt.Errorf("newCSV: could not open log: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("newCSV: %w", err)
	}

	c := &CSV{file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := c.write(Header); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("newCSV: could not write header: %w", err)
		}
	}
	return c, nil
}

func (c *CSV) write(record []string) error {
	if err := c.writer.Write(record); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Record returns the CSV row of an episode result
func Record(r episode.Result) []string {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return []string{
		r.RunID,
		strconv.Itoa(r.Number),
		strconv.Itoa(r.QLearningScore),
		strconv.Itoa(r.HeuristicScore),
		r.Winner.String(),
		f(r.Epsilon),
		strconv.Itoa(r.QTableSize),
		f(r.HitRate),
		strconv.Itoa(r.Generation),
		f(r.BestFitnessEver),
		f(r.BestChromosome[0]),
		f(r.BestChromosome[1]),
		f(r.BestChromosome[2]),
		r.Timestamp.Format(time.DateTime),
	}
}

// Track appends the row of an episode to the log
func (c *CSV) Track(r episode.Result) error {
	if err := c.write(Record(r)); err != nil {
		return fmt.Errorf("track: could not write episode %d: %w",
			r.Number, err)
	}
	return nil
}

// Save flushes and closes the log
func (c *CSV) Save() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
