package environment

// Ender determines when an episode ends
type Ender interface {
	// End returns whether the episode should be ended after elapsed
	// seconds of simulated time
	End(elapsed float64) bool
}

// TimeLimit implements the Ender interface to end episodes once a fixed
// amount of simulated time has passed
type TimeLimit struct {
	duration float64
}

// NewTimeLimit creates and returns a new time limit of duration seconds
func NewTimeLimit(duration float64) TimeLimit {
	return TimeLimit{duration}
}

// End determines whether or not the current episode should be ended,
// returning true once the time limit has been reached
func (t TimeLimit) End(elapsed float64) bool {
	return elapsed >= t.duration
}

// Duration returns the length of an episode in seconds
func (t TimeLimit) Duration() float64 {
	return t.duration
}
