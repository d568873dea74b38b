package trackers

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/utils/floatutils"
)

// Standings counts the wins of each side
type Standings struct {
	Games         int `json:"games"`
	QLearningWins int `json:"qlearning_wins"`
	HeuristicWins int `json:"heuristic_wins"`
	Draws         int `json:"draws"`
}

// Add counts the winner of an episode
func (s *Standings) Add(w episode.Winner) {
	s.Games++
	switch w {
	case episode.QLearning:
		s.QLearningWins++
	case episode.Heuristic:
		s.HeuristicWins++
	default:
		s.Draws++
	}
}

// Percent returns the percentage of games won by w
func (s Standings) Percent(w episode.Winner) float64 {
	if s.Games == 0 {
		return 0
	}

	var n int
	switch w {
	case episode.QLearning:
		n = s.QLearningWins
	case episode.Heuristic:
		n = s.HeuristicWins
	default:
		n = s.Draws
	}
	return 100 * float64(n) / float64(s.Games)
}

// Summary periodically logs the standings of both sides together with
// their average scores over the most recent episodes
type Summary struct {
	logger    *slog.Logger
	interval  int
	window    int
	standings Standings

	qlearning []float64
	heuristic []float64
	last      episode.Result
}

// NewSummary returns a new *Summary Tracker which logs every interval
// episodes, averaging scores over the last window episodes
func NewSummary(logger *slog.Logger, interval, window int) *Summary {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Summary{
		logger:   logger.With("component", "summary"),
		interval: max(interval, 1),
		window:   max(window, 1),
	}
}

// Standings returns the standings so far
func (s *Summary) Standings() Standings {
	return s.standings
}

// Averages returns the average score of each side over the last window
// episodes
func (s *Summary) Averages() (qlearning, heuristic float64) {
	if len(s.qlearning) == 0 {
		return 0, 0
	}
	return stat.Mean(floatutils.Tail(s.qlearning, s.window), nil),
		stat.Mean(floatutils.Tail(s.heuristic, s.window), nil)
}

// Track records the outcome of an episode and logs the summary every
// interval episodes
func (s *Summary) Track(r episode.Result) error {
	s.standings.Add(r.Winner)
	s.qlearning = append(s.qlearning, float64(r.QLearningScore))
	s.heuristic = append(s.heuristic, float64(r.HeuristicScore))
	s.last = r

	if s.standings.Games%s.interval == 0 {
		s.log("learning summary")
	}
	return nil
}

// Save logs the final summary
func (s *Summary) Save() error {
	if s.standings.Games > 0 {
		s.log("final summary")
	}
	return nil
}

func (s *Summary) log(msg string) {
	q, h := s.Averages()
	st := s.standings

	s.logger.Info(msg,
		"games", st.Games,
		"qlearning_wins", st.QLearningWins,
		"qlearning_pct", st.Percent(episode.QLearning),
		"heuristic_wins", st.HeuristicWins,
		"heuristic_pct", st.Percent(episode.Heuristic),
		"draws", st.Draws,
		"qlearning_avg", q,
		"heuristic_avg", h,
		"window", min(s.window, len(s.qlearning)),
		"epsilon", s.last.Epsilon,
		"generation", s.last.Generation,
		"best_fitness", s.last.BestFitnessEver,
	)
}
