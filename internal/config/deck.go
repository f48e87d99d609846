package config

import (
	"fmt"
	"time"

	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

// DeckConfig holds the feel of the swipe deck.
type DeckConfig struct {
	// Gesture
	Threshold float64 `yaml:"threshold" json:"threshold" env:"THRESHOLD"`

	// Presentation
	RotationDivisor float64 `yaml:"rotation_divisor" json:"rotation_divisor" env:"ROTATION_DIVISOR"`
	BaseScale       float64 `yaml:"base_scale" json:"base_scale" env:"BASE_SCALE"`
	ScaleStep       float64 `yaml:"scale_step" json:"scale_step" env:"SCALE_STEP"`
	VisibleWindow   int     `yaml:"visible_window" json:"visible_window" env:"VISIBLE_WINDOW"`

	// Exit and settle motion
	ExitX          float64       `yaml:"exit_x" json:"exit_x" env:"EXIT_X"`
	ExitDriftY     float64       `yaml:"exit_drift_y" json:"exit_drift_y" env:"EXIT_DRIFT_Y"`
	ExitDuration   time.Duration `yaml:"exit_duration" json:"exit_duration" env:"EXIT_DURATION"`
	RecycleDelay   time.Duration `yaml:"recycle_delay" json:"recycle_delay" env:"RECYCLE_DELAY"`
	SettleDuration time.Duration `yaml:"settle_duration" json:"settle_duration" env:"SETTLE_DURATION"`

	// Strict panics on contract violations instead of ignoring them.
	Strict bool `yaml:"strict" json:"strict" env:"STRICT"`
}

// DefaultDeck returns the standard deck feel.
func DefaultDeck() DeckConfig {
	p := swipe.DefaultPresenter()
	m := swipe.DefaultMotion()
	return DeckConfig{
		Threshold:       swipe.DefaultThreshold,
		RotationDivisor: p.RotationDivisor,
		BaseScale:       p.BaseScale,
		ScaleStep:       p.ScaleStep,
		VisibleWindow:   p.VisibleWindow,
		ExitX:           m.ExitX,
		ExitDriftY:      m.ExitDriftY,
		ExitDuration:    m.ExitDuration,
		RecycleDelay:    m.RecycleDelay,
		SettleDuration:  m.SettleDuration,
	}
}

// Relaxed commits on shorter drags, for small screens.
func Relaxed() DeckConfig {
	cfg := DefaultDeck()
	cfg.Threshold = 80
	cfg.SettleDuration = 220 * time.Millisecond
	return cfg
}

// Firm needs a longer, more deliberate drag to commit.
func Firm() DeckConfig {
	cfg := DefaultDeck()
	cfg.Threshold = 170
	cfg.RotationDivisor = 20
	cfg.SettleDuration = 350 * time.Millisecond
	return cfg
}

// Preset returns the named sensitivity preset.
func Preset(name string) (DeckConfig, bool) {
	switch name {
	case "default", "":
		return DefaultDeck(), true
	case "relaxed":
		return Relaxed(), true
	case "firm":
		return Firm(), true
	default:
		return DeckConfig{}, false
	}
}

// ApplyDefaults fills zero fields from DefaultDeck. exit_drift_y is left
// alone: 0 is a valid, purely horizontal exit. Load seeds it before decoding.
func (d *DeckConfig) ApplyDefaults() {
	def := DefaultDeck()
	if d.Threshold == 0 {
		d.Threshold = def.Threshold
	}
	if d.RotationDivisor == 0 {
		d.RotationDivisor = def.RotationDivisor
	}
	if d.BaseScale == 0 {
		d.BaseScale = def.BaseScale
	}
	if d.ScaleStep == 0 {
		d.ScaleStep = def.ScaleStep
	}
	if d.VisibleWindow == 0 {
		d.VisibleWindow = def.VisibleWindow
	}
	if d.ExitX == 0 {
		d.ExitX = def.ExitX
	}
	if d.ExitDuration == 0 {
		d.ExitDuration = def.ExitDuration
	}
	if d.RecycleDelay == 0 {
		d.RecycleDelay = d.ExitDuration
	}
	if d.SettleDuration == 0 {
		d.SettleDuration = def.SettleDuration
	}
}

func (d DeckConfig) Validate() error {
	if d.Threshold <= 0 {
		return fmt.Errorf("deck.threshold must be positive, got %v", d.Threshold)
	}
	if d.BaseScale <= 0 || d.BaseScale > 1 {
		return fmt.Errorf("deck.base_scale must be in (0, 1], got %v", d.BaseScale)
	}
	if d.ScaleStep < 0 {
		return fmt.Errorf("deck.scale_step must not be negative, got %v", d.ScaleStep)
	}
	if d.RecycleDelay < d.ExitDuration {
		return fmt.Errorf("deck.recycle_delay (%s) must not be shorter than deck.exit_duration (%s)", d.RecycleDelay, d.ExitDuration)
	}
	return nil
}

// SwipeOptions converts the deck config into swipe.Options.
// Scheduler, Logger and OnSwipe are left for the caller.
func (d DeckConfig) SwipeOptions() swipe.Options {
	return swipe.Options{
		Threshold: d.Threshold,
		Presenter: swipe.Presenter{
			RotationDivisor: d.RotationDivisor,
			BaseScale:       d.BaseScale,
			ScaleStep:       d.ScaleStep,
			VisibleWindow:   d.VisibleWindow,
		},
		Motion: swipe.Motion{
			ExitX:          d.ExitX,
			ExitDriftY:     d.ExitDriftY,
			ExitDuration:   d.ExitDuration,
			RecycleDelay:   d.RecycleDelay,
			SettleDuration: d.SettleDuration,
		},
		Strict: d.Strict,
	}
}
