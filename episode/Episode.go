// Package episode implements the outcome of a single duel episode
package episode

import (
	"fmt"
	"strings"
	"time"
)

// Winner denotes which side won an episode
type Winner int

const (
	Draw Winner = iota
	QLearning
	Heuristic
)

func (w Winner) String() string {
	switch w {
	case QLearning:
		return "QLearning"
	case Heuristic:
		return "Heuristic"
	default:
		return "Draw"
	}
}

// ParseWinner parses the string form of a Winner
func ParseWinner(s string) (Winner, error) {
	switch strings.ToLower(s) {
	case "qlearning":
		return QLearning, nil
	case "heuristic":
		return Heuristic, nil
	case "draw":
		return Draw, nil
	}
	return Draw, fmt.Errorf("parseWinner: no such winner %q", s)
}

// MarshalText implements the encoding.TextMarshaler interface
func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (w *Winner) UnmarshalText(text []byte) error {
	parsed, err := ParseWinner(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Decide returns the Winner of an episode given both final scores
func Decide(qlearningScore, heuristicScore int) Winner {
	switch {
	case qlearningScore > heuristicScore:
		return QLearning
	case heuristicScore > qlearningScore:
		return Heuristic
	default:
		return Draw
	}
}

// Result packages together the outcome of a single episode and the
// state of both decision engines once the episode has ended
type Result struct {
	RunID          string `json:"run_id"`
	Number         int    `json:"number"`
	QLearningScore int    `json:"qlearning_score"`
	HeuristicScore int    `json:"heuristic_score"`
	Winner         Winner `json:"winner"`

	Epsilon    float64 `json:"epsilon"`
	QTableSize int     `json:"qtable_size"`
	HitRate    float64 `json:"hit_rate"`

	Generation      int        `json:"generation"`
	BestFitnessEver float64    `json:"best_fitness_ever"`
	BestChromosome  [3]float64 `json:"best_chromosome"`

	Timestamp time.Time `json:"timestamp"`
}

func (r Result) String() string {
	str := "Episode %v | QLearning: %v  |  Heuristic: %v  |  Winner: %v  " +
		"|  Epsilon: %.3f  |  Generation: %v"

	return fmt.Sprintf(str, r.Number, r.QLearningScore, r.HeuristicScore,
		r.Winner, r.Epsilon, r.Generation)
}
