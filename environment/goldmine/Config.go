package goldmine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// Range is an inclusive range of integers
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RopeConfig describes the motion of a rope
type RopeConfig struct {
	SwingSpeed    float64 `json:"swing_speed" env:"SWING_SPEED"`         // Degrees per second
	MaxSwingAngle float64 `json:"max_swing_angle" env:"MAX_SWING_ANGLE"` // Degrees either side
	ExtendSpeed   float64 `json:"extend_speed" env:"EXTEND_SPEED"`
	RetractSpeed  float64 `json:"retract_speed" env:"RETRACT_SPEED"`
	RestLength    float64 `json:"rest_length" env:"REST_LENGTH"`
	MaxLength     float64 `json:"max_length" env:"MAX_LENGTH"`
}

// Validate ensures that the RopeConfig is valid
func (r RopeConfig) Validate() error {
	if r.SwingSpeed < 0 {
		return fmt.Errorf("swing speed cannot be negative")
	}
	if r.MaxSwingAngle <= 0 || r.MaxSwingAngle >= 90 {
		return fmt.Errorf("max swing angle must be in (0, 90)")
	}
	if r.ExtendSpeed <= 0 || r.RetractSpeed <= 0 {
		return fmt.Errorf("rope speeds must be positive")
	}
	if r.RestLength <= 0 || r.MaxLength <= r.RestLength {
		return fmt.Errorf("need 0 < rest length < max length")
	}
	return nil
}

// Config represents a configuration of a World
type Config struct {
	GoldCount Range       `json:"gold_count"`
	RockCount Range       `json:"rock_count"`
	XBounds   r1.Interval `json:"x_bounds"`
	YBounds   r1.Interval `json:"y_bounds"`

	DetectionRadius float64    `json:"detection_radius" env:"DETECTION_RADIUS"`
	HookRadius      float64    `json:"hook_radius" env:"HOOK_RADIUS"`
	Rope            RopeConfig `json:"rope" envPrefix:"ROPE_"`

	// Anchor points of the ropes of each Rig, in Owner order
	Anchors [NumOwners]r2.Vec `json:"anchors"`
}

// DefaultConfig returns the default Config
func DefaultConfig() Config {
	return Config{
		GoldCount: Range{7, 17},
		RockCount: Range{5, 10},
		XBounds:   r1.Interval{Min: -8, Max: 8},
		YBounds:   r1.Interval{Min: -4.5, Max: -0.5},

		DetectionRadius: 10,
		HookRadius:      0.2,
		Rope: RopeConfig{
			SwingSpeed:    50,
			MaxSwingAngle: 45,
			ExtendSpeed:   5,
			RetractSpeed:  8,
			RestLength:    1,
			MaxLength:     6,
		},

		Anchors: [NumOwners]r2.Vec{
			{X: -4, Y: 1},
			{X: 4, Y: 1},
		},
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	for _, r := range []Range{c.GoldCount, c.RockCount} {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("invalid spawn count range [%v, %v]", r.Min,
				r.Max)
		}
	}
	if c.XBounds.Max <= c.XBounds.Min || c.YBounds.Max <= c.YBounds.Min {
		return fmt.Errorf("spawn area must have a positive size")
	}
	if c.DetectionRadius <= 0 || c.HookRadius <= 0 {
		return fmt.Errorf("radii must be positive")
	}
	if err := c.Rope.Validate(); err != nil {
		return fmt.Errorf("rope: %w", err)
	}
	return nil
}
