package qlearning

// RewardConfig determines the shaped rewards given to the Engine
type RewardConfig struct {
	// Wait is rewarded every time the engine chooses to wait
	Wait float64 `json:"wait"`

	// EmptyShot is rewarded when shooting while no target is visible
	EmptyShot float64 `json:"empty_shot"`

	// ValueScale scales the value of a collected target into a reward
	ValueScale float64 `json:"value_scale"`

	// ValueBonus is added when a non-costly collected target is worth
	// at least ValueThreshold points
	ValueThreshold int     `json:"value_threshold"`
	ValueBonus     float64 `json:"value_bonus"`

	// CostScale scales the value of a costly collected target into a
	// penalty
	CostScale float64 `json:"cost_scale"`

	// CostPenalty is subtracted when a costly collected target is worth
	// at least CostThreshold points
	CostThreshold int     `json:"cost_threshold"`
	CostPenalty   float64 `json:"cost_penalty"`
}

// DefaultRewards returns the default reward shaping
func DefaultRewards() RewardConfig {
	return RewardConfig{
		Wait:      0.01,
		EmptyShot: -0.3,

		ValueScale:     1.0 / 100.0,
		ValueThreshold: 500,
		ValueBonus:     0.5,

		CostScale:     1.0 / 20.0,
		CostThreshold: 20,
		CostPenalty:   0.3,
	}
}

// Collection returns the reward for collecting a target worth value
// points
func (r RewardConfig) Collection(value int, costly bool) float64 {
	if costly {
		reward := -float64(value) * r.CostScale
		if value >= r.CostThreshold {
			reward -= r.CostPenalty
		}
		return reward
	}

	reward := float64(value) * r.ValueScale
	if value >= r.ValueThreshold {
		reward += r.ValueBonus
	}
	return reward
}

// unshapedCollection returns the outcome reward used when reward
// shaping is disabled: the signed, scaled value of the target
func (r RewardConfig) unshapedCollection(value int, costly bool) float64 {
	reward := float64(value) * r.ValueScale
	if costly {
		return -reward
	}
	return reward
}
