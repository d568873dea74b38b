// Package checkpointer implements Checkpointers, which periodically
// save the state of the decision engines of an experiment
package checkpointer

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// Checkpointer checkpoints/saves serializable objects at the end of
// episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}

// Encode returns the gob encoding of object
func Encode(object Serializable) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(object); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores object from its gob encoding
func Decode(data []byte, object Serializable) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(object); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
