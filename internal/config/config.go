// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	MinFPS = 1
	MaxFPS = 240
)

// ErrBadFPS is returned when the frame rate is outside [MinFPS, MaxFPS].
var ErrBadFPS = errors.New("config: fps out of range")

// Config holds game configuration options.
type Config struct {
	// FPS is the fixed frame rate of the game loop.
	FPS int `env:"SKIRMISH_FPS" envDefault:"60"`

	// Roster is an optional JSON or YAML roster file. Empty means the embedded roster.
	Roster string `env:"SKIRMISH_ROSTER"`
	// WatchRoster reloads Roster when it changes on disk.
	WatchRoster bool `env:"SKIRMISH_WATCH_ROSTER" envDefault:"false"`

	Debug  bool   `env:"SKIRMISH_DEBUG" envDefault:"false"`
	LogDir string `env:"SKIRMISH_LOG_DIR" envDefault:"logs"`

	Telemetry        bool   `env:"SKIRMISH_TELEMETRY" envDefault:"true"`
	HoneycombAPIKey  string `env:"HONEYCOMB_SKIRMISH_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_SKIRMISH_DATASET" envDefault:"skirmish"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges env tags cannot express.
func (c Config) Validate() error {
	if c.FPS < MinFPS || c.FPS > MaxFPS {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBadFPS, c.FPS, MinFPS, MaxFPS)
	}
	if c.WatchRoster && c.Roster == "" {
		return errors.New("config: SKIRMISH_WATCH_ROSTER requires SKIRMISH_ROSTER")
	}
	return nil
}
