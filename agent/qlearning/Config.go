package qlearning

import (
	"fmt"
)

// Config represents a configuration for the Q-learning Engine
type Config struct {
	LearningRate   float64 `json:"learning_rate" env:"LEARNING_RATE"`
	DiscountFactor float64 `json:"discount_factor" env:"DISCOUNT_FACTOR"`

	Epsilon      float64 `json:"epsilon" env:"EPSILON"` // epsilon for behaviour policy
	EpsilonDecay float64 `json:"epsilon_decay" env:"EPSILON_DECAY"`
	MinEpsilon   float64 `json:"min_epsilon" env:"MIN_EPSILON"`

	// ExploreShootProb is the probability of choosing to shoot when
	// taking an exploratory action
	ExploreShootProb float64 `json:"explore_shoot_prob" env:"EXPLORE_SHOOT_PROB"`

	UseExperienceReplay bool `json:"use_experience_replay" env:"USE_EXPERIENCE_REPLAY"`
	ReplayBufferSize    int  `json:"replay_buffer_size" env:"REPLAY_BUFFER_SIZE"`
	ReplayBatchSize     int  `json:"replay_batch_size" env:"REPLAY_BATCH_SIZE"`

	UseRewardShaping bool         `json:"use_reward_shaping" env:"USE_REWARD_SHAPING"`
	Rewards          RewardConfig `json:"rewards"`

	// DecisionDelay is the simulated time in seconds between decisions
	DecisionDelay float64 `json:"decision_delay" env:"DECISION_DELAY"`
}

// DefaultConfig returns the default Config
func DefaultConfig() Config {
	return Config{
		LearningRate:   0.1,
		DiscountFactor: 0.9,

		Epsilon:      0.9,
		EpsilonDecay: 0.995,
		MinEpsilon:   0.1,

		ExploreShootProb: 0.7,

		UseExperienceReplay: true,
		ReplayBufferSize:    500,
		ReplayBatchSize:     32,

		UseRewardShaping: true,
		Rewards:          DefaultRewards(),

		DecisionDelay: 0.3,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}
	if c.DiscountFactor < 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("discount factor must be in [0, 1]")
	}
	if c.MinEpsilon > c.Epsilon {
		return fmt.Errorf("minimum epsilon (%v) cannot exceed epsilon (%v)",
			c.MinEpsilon, c.Epsilon)
	}
	if c.DecisionDelay < 0 {
		return fmt.Errorf("decision delay cannot be lower than 0")
	}
	if c.UseExperienceReplay {
		if c.ReplayBufferSize < 1 || c.ReplayBatchSize < 1 {
			return fmt.Errorf("replay buffer and batch sizes must be >= 1")
		}
		if c.ReplayBatchSize > c.ReplayBufferSize {
			return fmt.Errorf("cannot have batch size(%v) > buffer size(%v)",
				c.ReplayBatchSize, c.ReplayBufferSize)
		}
	}
	return nil
}
