package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Server   ServerConfig   `yaml:"server" json:"server" envPrefix:"SERVER_"`
	Deck     DeckConfig     `yaml:"deck" json:"deck" envPrefix:"DECK_"`
	Feedback FeedbackConfig `yaml:"feedback" json:"feedback" envPrefix:"FEEDBACK_"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr" json:"addr" env:"ADDR"`
	LogLevel       string   `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	ProfilesPath   string   `yaml:"profiles_path" json:"profiles_path" env:"PROFILES_PATH"`
}

type FeedbackConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled" env:"ENABLED"`
	Music      bool   `yaml:"music" json:"music" env:"MUSIC"`
	ScriptPath string `yaml:"script_path" json:"script_path" env:"SCRIPT_PATH"`
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Deck.ApplyDefaults()
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{
		Version:  "1",
		Deck:     DeckConfig{ExitDriftY: DefaultDeck().ExitDriftY},
		Feedback: FeedbackConfig{Enabled: true, Music: true},
	}
	c.ApplyDefaults()
	return c
}

// Validate reports settings that would produce an unusable deck or logger.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Server.LogLevel); err != nil {
		return err
	}
	return c.Deck.Validate()
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := Config{
		// exit_drift_y keeps an explicit 0, so it is seeded rather than defaulted.
		Deck:     DeckConfig{ExitDriftY: DefaultDeck().ExitDriftY},
		Feedback: FeedbackConfig{Enabled: true, Music: true},
	}
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.ApplyDefaults()
	return &r, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
// Environment overrides are applied on top either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := FromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
}
