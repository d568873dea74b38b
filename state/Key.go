// Package state implements the discretization of continuous sensor
// readings into the small, categorical state space used by tabular
// learners
package state

import "strings"

// Separator separates the fields of a Key in its string representation
const Separator = "_"

// DistanceBucket categorizes the distance to a target
type DistanceBucket uint8

const (
	Close DistanceBucket = iota
	Medium
	Far
)

func (d DistanceBucket) String() string {
	switch d {
	case Close:
		return "close"
	case Medium:
		return "medium"
	default:
		return "far"
	}
}

// AlignmentBucket categorizes the angular difference between the
// actuator and the bearing to a target
type AlignmentBucket uint8

const (
	Aligned AlignmentBucket = iota
	Near
	Misaligned
)

func (a AlignmentBucket) String() string {
	switch a {
	case Aligned:
		return "aligned"
	case Near:
		return "near"
	default:
		return "misaligned"
	}
}

// WeightBucket categorizes the weight of a target
type WeightBucket uint8

const (
	Light WeightBucket = iota
	MediumWeight
	Heavy
)

func (w WeightBucket) String() string {
	switch w {
	case Light:
		return "light"
	case MediumWeight:
		return "medium"
	default:
		return "heavy"
	}
}

// kind distinguishes the sentinel keys from keys describing a target
type kind uint8

const (
	noTarget kind = iota
	target
	terminal
)

// Key is a discretized state. Keys are comparable and can be used
// directly as map keys.
type Key struct {
	kind      kind
	Distance  DistanceBucket
	Alignment AlignmentBucket
	Category  string
	Weight    WeightBucket
}

var (
	// NoTarget is the state in which no target is visible
	NoTarget = Key{kind: noTarget}

	// Terminal is the state following the last transition of an
	// episode
	Terminal = Key{kind: terminal}
)

// New returns a new Key describing a target
func New(d DistanceBucket, a AlignmentBucket, category string,
	w WeightBucket) Key {
	return Key{
		kind:      target,
		Distance:  d,
		Alignment: a,
		Category:  category,
		Weight:    w,
	}
}

// HasTarget returns whether the Key describes a target
func (k Key) HasTarget() bool {
	return k.kind == target
}

// IsTerminal returns whether the Key is the terminal state
func (k Key) IsTerminal() bool {
	return k.kind == terminal
}

// String returns the string representation of the Key, for example
// close_aligned_gold_light
func (k Key) String() string {
	switch k.kind {
	case noTarget:
		return "no_target"
	case terminal:
		return "terminal"
	}

	return strings.Join([]string{
		k.Distance.String(),
		k.Alignment.String(),
		k.Category,
		k.Weight.String(),
	}, Separator)
}

// Parse parses the string representation of a Key. Categories which
// contain the separator cannot be represented and are rejected.
func Parse(s string) (Key, bool) {
	switch s {
	case "no_target":
		return NoTarget, true
	case "terminal":
		return Terminal, true
	}

	fields := strings.Split(s, Separator)
	if len(fields) != 4 {
		return Key{}, false
	}

	var k Key
	k.kind = target
	k.Category = fields[2]

	switch fields[0] {
	case "close":
		k.Distance = Close
	case "medium":
		k.Distance = Medium
	case "far":
		k.Distance = Far
	default:
		return Key{}, false
	}

	switch fields[1] {
	case "aligned":
		k.Alignment = Aligned
	case "near":
		k.Alignment = Near
	case "misaligned":
		k.Alignment = Misaligned
	default:
		return Key{}, false
	}

	switch fields[3] {
	case "light":
		k.Weight = Light
	case "medium":
		k.Weight = MediumWeight
	case "heavy":
		k.Weight = Heavy
	default:
		return Key{}, false
	}

	return k, true
}
