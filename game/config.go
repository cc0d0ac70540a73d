package game

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration, loaded from the environment. The
// defaults reproduce the original game.
type Config struct {
	// Seed for the run's rng; 0 picks a time-based seed.
	Seed uint64 `env:"LIFTRUSH_SEED"`
	// ServeTarget is how many passengers must be served before the
	// building counts as complete.
	ServeTarget int `env:"LIFTRUSH_SERVE_TARGET" envDefault:"25"`
	// AvgArrivalSeconds is the mean of the normal inter-arrival time.
	AvgArrivalSeconds float64 `env:"LIFTRUSH_AVG_ARRIVAL" envDefault:"3"`
	// WindowScale multiplies the logical 400x600 playfield.
	WindowScale int `env:"LIFTRUSH_WINDOW_SCALE" envDefault:"1"`
	// DebugUI enables the ImGui debug overlay.
	DebugUI bool `env:"LIFTRUSH_DEBUG"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.WindowScale < 1 {
		cfg.WindowScale = 1
	}
	return cfg, nil
}
