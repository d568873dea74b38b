package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying buffer error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var (
	errEmptyCache          = errors.New("cache empty")
	errInsufficientSamples = errors.New("minimum capacity not yet reached")
)

// IsInsufficientSamples returns whether or not an error reports that
// the buffer holds fewer than its minimum capacity of samples. Empty
// buffers also hold insufficient samples.
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, errInsufficientSamples) ||
		errors.Is(err, errEmptyCache)
}

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyCache)
}
