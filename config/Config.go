// Package config loads the configuration of a run. A Config is built
// in three layers: compiled defaults, an optional JSON file, and
// environment variables prefixed with EnvPrefix.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/samuelfneumann/ropeduel/agent/heuristic"
	"github.com/samuelfneumann/ropeduel/agent/qlearning"
	"github.com/samuelfneumann/ropeduel/environment/goldmine"
	"github.com/samuelfneumann/ropeduel/evolution"
	"github.com/samuelfneumann/ropeduel/experiment"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "ROPEDUEL_"

// Config is the configuration of a run
type Config struct {
	Episodes int    `json:"episodes" env:"EPISODES" validate:"gte=1"`
	Seed     uint64 `json:"seed" env:"SEED"`

	// StopWhenCleared ends an episode early once no gold is left
	StopWhenCleared bool `json:"stop_when_cleared" env:"STOP_WHEN_CLEARED"`

	Log       Log               `json:"log" envPrefix:"LOG_"`
	Episode   experiment.Config `json:"episode" envPrefix:"EPISODE_"`
	World     goldmine.Config   `json:"world" envPrefix:"WORLD_"`
	Heuristic heuristic.Config  `json:"heuristic" envPrefix:"HEURISTIC_"`
	Evolution evolution.Config  `json:"evolution" envPrefix:"EVOLUTION_"`
	QLearning qlearning.Config  `json:"qlearning" envPrefix:"QLEARNING_"`
	Output    Output            `json:"output" envPrefix:"OUTPUT_"`
	Server    Server            `json:"server" envPrefix:"SERVER_"`
}

// Log configures logging
type Log struct {
	Level string `json:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
}

// Output configures where episode results and checkpoints are written
type Output struct {
	Dir string `json:"dir" env:"DIR" validate:"required"`

	CSV   bool `json:"csv" env:"CSV"`
	Chart bool `json:"chart" env:"CHART"`

	// ChartWindow is the window of the moving averages in the chart
	ChartWindow int `json:"chart_window" env:"CHART_WINDOW" validate:"gte=1"`

	SummaryInterval int `json:"summary_interval" env:"SUMMARY_INTERVAL" validate:"gte=1"`
	SummaryWindow   int `json:"summary_window" env:"SUMMARY_WINDOW" validate:"gte=1"`

	// CheckpointEvery is the number of episodes between checkpoints. If
	// 0, no checkpoints are written.
	CheckpointEvery int  `json:"checkpoint_every" env:"CHECKPOINT_EVERY" validate:"gte=0"`
	Resume          bool `json:"resume" env:"RESUME"`

	Store    string `json:"store" env:"STORE" validate:"omitempty,oneof=memory sqlite postgres"`
	StoreDSN string `json:"store_dsn" env:"STORE_DSN" validate:"required_if=Store postgres"`

	RedisAddr string `json:"redis_addr" env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisKey  string `json:"redis_key" env:"REDIS_KEY" validate:"required_with=RedisAddr"`

	AMQPURL   string `json:"amqp_url" env:"AMQP_URL" validate:"omitempty,url"`
	AMQPQueue string `json:"amqp_queue" env:"AMQP_QUEUE" validate:"required_with=AMQPURL"`

	// PublishEvery is the number of episodes between published results
	PublishEvery int `json:"publish_every" env:"PUBLISH_EVERY" validate:"gte=1"`

	// Timeout is the number of seconds allowed for each store, redis or
	// amqp operation
	Timeout int `json:"timeout" env:"TIMEOUT" validate:"gte=1"`
}

// Server configures the HTTP inspection API
type Server struct {
	// Addr is the address to listen on. If empty, the API is disabled.
	Addr   string `json:"addr" env:"ADDR" validate:"omitempty,hostname_port"`
	Recent int    `json:"recent" env:"RECENT" validate:"gte=1"`
	Top    int    `json:"top" env:"TOP" validate:"gte=1"`
}

// Default returns the default Config
func Default() *Config {
	return &Config{
		Episodes: 1000,
		Seed:     1,

		Log: Log{Level: "info"},

		Episode:   experiment.DefaultConfig(),
		World:     goldmine.DefaultConfig(),
		Heuristic: heuristic.DefaultConfig(),
		Evolution: evolution.DefaultConfig(),
		QLearning: qlearning.DefaultConfig(),

		Output: Output{
			Dir:             "results",
			CSV:             true,
			Chart:           true,
			ChartWindow:     10,
			SummaryInterval: 10,
			SummaryWindow:   10,
			CheckpointEvery: 50,
			Store:           "sqlite",
			RedisKey:        "ropeduel:checkpoint",
			AMQPQueue:       "ropeduel.episodes",
			PublishEvery:    1,
			Timeout:         10,
		},

		Server: Server{
			Recent: 100,
			Top:    10,
		},
	}
}

// Load returns the default Config, overridden by the JSON file at path
// if path is not empty, and then by the environment. The resulting
// Config is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load: could not read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load: could not parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// Only the first error is reported
			return nil, fmt.Errorf("load: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return cfg, nil
}

// Validate ensures that the Config is valid. Validation errors of the
// Config's own fields are translated into English.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("invalid config: %s",
				validationErrors[0].Translate(trans))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	sections := []struct {
		name     string
		validate func() error
	}{
		{"episode", c.Episode.Validate},
		{"world", c.World.Validate},
		{"heuristic", c.Heuristic.Validate},
		{"evolution", c.Evolution.Validate},
		{"qlearning", c.QLearning.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}
	return nil
}
