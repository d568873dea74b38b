package tracker

import "github.com/samuelfneumann/ropeduel/episode"

// every forwards only every n-th episode to the embedded Tracker.
// every itself is a Tracker.
type every struct {
	Tracker
	n int
}

// Every returns a Tracker which calls the Track() method of t only for
// episodes whose number is a multiple of n. The Save() method of t is
// left unmodified.
func Every(t Tracker, n int) Tracker {
	if n <= 1 {
		return t
	}
	return &every{t, n}
}

// Track calls Track() on the embedded Tracker if the episode number
// is a multiple of n
func (e *every) Track(r episode.Result) error {
	if r.Number%e.n != 0 {
		return nil
	}
	return e.Tracker.Track(r)
}
