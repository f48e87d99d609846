package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "SWIPEDECK_"

// FromEnv overlays SWIPEDECK_* environment variables onto cfg.
// SWIPEDECK_SENSITIVITY selects a deck preset before individual overrides apply.
func FromEnv(cfg *Config) error {
	if name := os.Getenv(envPrefix + "SENSITIVITY"); name != "" {
		preset, ok := Preset(name)
		if !ok {
			return fmt.Errorf("invalid %sSENSITIVITY %q", envPrefix, name)
		}
		preset.Strict = cfg.Deck.Strict
		cfg.Deck = preset
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.ApplyDefaults()
	return nil
}
