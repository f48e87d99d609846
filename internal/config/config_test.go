package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swipedeck.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ReadsYAMLAndAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: "1"
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:3000"]
deck:
  threshold: 100
  exit_duration: 300ms
feedback:
  script_path: feedback.lua
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 100.0, cfg.Deck.Threshold)
	assert.Equal(t, 300*time.Millisecond, cfg.Deck.ExitDuration)
	assert.Equal(t, 300*time.Millisecond, cfg.Deck.RecycleDelay, "recycle delay follows the exit")
	assert.Equal(t, 0.96, cfg.Deck.BaseScale)
	assert.Equal(t, 5, cfg.Deck.VisibleWindow)
	assert.True(t, cfg.Feedback.Enabled)
	assert.Equal(t, "feedback.lua", cfg.Feedback.ScriptPath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "deck: [not, a, map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDeck(), cfg.Deck)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SWIPEDECK_SERVER_ADDR", ":7000")
	t.Setenv("SWIPEDECK_SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SWIPEDECK_DECK_THRESHOLD", "95")
	t.Setenv("SWIPEDECK_DECK_EXIT_DURATION", "350ms")
	t.Setenv("SWIPEDECK_DECK_RECYCLE_DELAY", "360ms")
	t.Setenv("SWIPEDECK_FEEDBACK_MUSIC", "false")

	cfg := Default()
	require.NoError(t, FromEnv(cfg))

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 95.0, cfg.Deck.Threshold)
	assert.Equal(t, 350*time.Millisecond, cfg.Deck.ExitDuration)
	assert.Equal(t, 360*time.Millisecond, cfg.Deck.RecycleDelay)
	assert.False(t, cfg.Feedback.Music)
	assert.True(t, cfg.Feedback.Enabled)
}

func TestFromEnv_SensitivityPreset(t *testing.T) {
	t.Setenv("SWIPEDECK_SENSITIVITY", "firm")

	cfg := Default()
	require.NoError(t, FromEnv(cfg))
	assert.Equal(t, 170.0, cfg.Deck.Threshold)

	t.Setenv("SWIPEDECK_SENSITIVITY", "wobbly")
	assert.Error(t, FromEnv(Default()))
}

func TestValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("recycle delay shorter than exit", func(t *testing.T) {
		cfg := Default()
		cfg.Deck.RecycleDelay = 100 * time.Millisecond
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := Default()
		cfg.Server.LogLevel = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative threshold", func(t *testing.T) {
		cfg := Default()
		cfg.Deck.Threshold = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestDeckConfig_SwipeOptions(t *testing.T) {
	d := Relaxed()
	opts := d.SwipeOptions()

	assert.Equal(t, 80.0, opts.Threshold)
	assert.Equal(t, d.ExitDuration, opts.Motion.ExitDuration)
	assert.Equal(t, d.VisibleWindow, opts.Presenter.VisibleWindow)
	assert.Nil(t, opts.Scheduler)
}

func TestLoad_ExitDrift(t *testing.T) {
	t.Run("omitted takes default", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "deck:\n  threshold: 100\n"))
		require.NoError(t, err)
		assert.Equal(t, 40.0, cfg.Deck.ExitDriftY)
	})

	t.Run("explicit zero is horizontal", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "deck:\n  exit_drift_y: 0\n"))
		require.NoError(t, err)
		assert.Zero(t, cfg.Deck.ExitDriftY)

		m := cfg.Deck.SwipeOptions().Motion
		m.ApplyDefaults()
		assert.Equal(t, 0.0, m.ExitOffset(swipe.Right).Y)
	})
}
