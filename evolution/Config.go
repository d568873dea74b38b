package evolution

import "fmt"

// EvaluationPolicy determines how many episodes an individual remains
// active before its fitness is finalized
type EvaluationPolicy string

const (
	// PerEpisode evaluates each individual for exactly one episode,
	// using the episode score as its fitness
	PerEpisode EvaluationPolicy = "per-episode"

	// PerMatch keeps each individual active for a match of MatchLength
	// episodes, using its best score over the match as its fitness
	PerMatch EvaluationPolicy = "per-match"
)

// Config represents a configuration of a Tuner
type Config struct {
	PopulationSize int     `json:"population_size" env:"POPULATION_SIZE"`
	ElitismCount   int     `json:"elitism_count" env:"ELITISM_COUNT"`
	TournamentSize int     `json:"tournament_size" env:"TOURNAMENT_SIZE"`
	MutationRate   float64 `json:"mutation_rate" env:"MUTATION_RATE"`
	MutationAmount float64 `json:"mutation_amount" env:"MUTATION_AMOUNT"`

	Evaluation  EvaluationPolicy `json:"evaluation" env:"EVALUATION"`
	MatchLength int              `json:"match_length" env:"MATCH_LENGTH"`
}

// DefaultConfig returns the default Config
func DefaultConfig() Config {
	return Config{
		PopulationSize: 10,
		ElitismCount:   2,
		TournamentSize: DefaultTournamentSize,
		MutationRate:   0.3,
		MutationAmount: 0.5,

		Evaluation:  PerEpisode,
		MatchLength: 1,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.PopulationSize < 1 {
		return fmt.Errorf("population size must be >= 1")
	}
	if c.ElitismCount < 0 {
		return fmt.Errorf("elitism count cannot be lower than 0")
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournament size must be >= 1")
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if c.MutationAmount < 0 {
		return fmt.Errorf("mutation amount cannot be lower than 0")
	}

	switch c.Evaluation {
	case PerEpisode:
	case PerMatch:
		if c.MatchLength < 1 {
			return fmt.Errorf("match length must be >= 1")
		}
	default:
		return fmt.Errorf("no such evaluation policy %q", c.Evaluation)
	}
	return nil
}
