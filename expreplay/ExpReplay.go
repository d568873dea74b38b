// Package expreplay implements experience replay buffers of decision
// tick transitions
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/ropeduel/timestep"
)

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType
	SampleSize        int
	MaxReplayCapacity int
	MinReplayCapacity int
}

// Create creates and returns the ExperienceReplayer with the specified
// Config
func (c Config) Create(seed uint64) (ExperienceReplayer, error) {
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return New(sampler, c.MinReplayCapacity, c.MaxReplayCapacity)
}

// ExperienceReplayer implements an experience replay buffer. Buffers
// have a fixed maximum capacity: once full, each new transition
// replaces the oldest transition in the buffer.
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t timestep.Transition) error

	// Sample samples a batch of transitions from the buffer
	Sample() ([]timestep.Transition, error)

	// Transitions returns all transitions in the buffer, from oldest
	// to newest
	Transitions() []timestep.Transition

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// New creates and returns a new ExperienceReplayer which evicts its
// oldest transition once full. The sampler parameter is a Selector
// which determines how data is sampled from the buffer. The buffer
// can only be sampled once it holds at least minCapacity transitions.
func New(sampler Selector, minCapacity,
	maxCapacity int) (ExperienceReplayer, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < 1 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 1")
	}
	if minCapacity > maxCapacity {
		return nil, fmt.Errorf("new: cannot have minCapacity(%v) > max "+
			"buffer capacity (%v)", minCapacity, maxCapacity)
	}

	return newFifoRemove1Cache(sampler, minCapacity, maxCapacity), nil
}
