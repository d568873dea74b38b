package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/ropeduel/timestep"
)

// fifoRemove1Cache implements a concrete ExperienceReplayer where
// elements are removed from the buffer in a FiFo manner, and only a
// single element is removed from the cache at a time.
//
// The cache is a ring: new transitions are written at currentInUsePos,
// which then advances. Once the ring is full, currentInUsePos always
// points at the oldest transition, which is the next to be
// overwritten.
type fifoRemove1Cache struct {
	cache           []timestep.Transition
	currentInUsePos int
	isFull          bool

	// Outlines how data is sampled
	sampler Selector

	minCapacity int
	maxCapacity int
}

// newFifoRemove1Cache returns a new fifoRemove1Cache. The minCapacity
// parameter determines the minimum number of samples that should be in
// the buffer before sampling is allowed. The maxCapacity parameter
// determines the maximum number of samples allowed in the buffer at
// any given time.
func newFifoRemove1Cache(sampler Selector, minCapacity,
	maxCapacity int) *fifoRemove1Cache {
	return &fifoRemove1Cache{
		cache:           make([]timestep.Transition, maxCapacity),
		currentInUsePos: 0,
		isFull:          false,

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
	}
}

// String returns the string representation of the fifoRemove1Cache
func (c *fifoRemove1Cache) String() string {
	return fmt.Sprintf("fifoRemove1Cache | Capacity: %v/%v  |  Full: %v",
		c.Capacity(), c.MaxCapacity(), c.isFull)
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (c *fifoRemove1Cache) BatchSize() int {
	return c.sampler.BatchSize()
}

// insertOrder returns the indices of at most the n oldest transitions
// in the buffer, from oldest to newest
func (c *fifoRemove1Cache) insertOrder(n int) []int {
	size := min(n, c.Capacity())
	indices := make([]int, size)

	start := 0
	if c.isFull {
		start = c.currentInUsePos
	}
	for i := range indices {
		indices[i] = (start + i) % c.MaxCapacity()
	}
	return indices
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (c *fifoRemove1Cache) Sample() ([]timestep.Transition, error) {
	if c.Capacity() == 0 {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, err
	}
	if c.Capacity() < c.MinCapacity() {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
		return nil, err
	}

	indices := c.sampler.choose(c)
	batch := make([]timestep.Transition, len(indices))
	for i, index := range indices {
		batch[i] = c.cache[index]
	}

	return batch, nil
}

// Transitions returns the transitions in the buffer from oldest to
// newest
func (c *fifoRemove1Cache) Transitions() []timestep.Transition {
	indices := c.insertOrder(c.Capacity())
	transitions := make([]timestep.Transition, len(indices))
	for i, index := range indices {
		transitions[i] = c.cache[index]
	}
	return transitions
}

// Capacity returns the current number of elements in the
// fifoRemove1Cache that are available for sampling
func (c *fifoRemove1Cache) Capacity() int {
	if c.isFull {
		return c.MaxCapacity()
	}
	return c.currentInUsePos
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the fifoRemove1Cache
func (c *fifoRemove1Cache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// fifoRemove1Cache before sampling is allowed
func (c *fifoRemove1Cache) MinCapacity() int {
	return c.minCapacity
}

// Add adds a transition to the fifoRemove1Cache, overwriting the
// oldest transition if the cache is full
func (c *fifoRemove1Cache) Add(t timestep.Transition) error {
	index := c.currentInUsePos
	if !c.isFull && index+1 == c.MaxCapacity() {
		c.isFull = true
	}

	c.cache[index] = t
	c.currentInUsePos = (c.currentInUsePos + 1) % c.MaxCapacity()
	return nil
}
