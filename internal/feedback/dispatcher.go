package feedback

import (
	"context"
	"log/slog"
	"sync"
)

// Player plays a named sound effect.
type Player interface {
	Play(ctx context.Context, sound string) error
}

// Haptics triggers a vibration.
type Haptics interface {
	Vibrate(ctx context.Context, h Haptic) error
}

// Dispatcher asks a policy for a cue and hands it to the sinks.
// It also owns the background music switch.
type Dispatcher struct {
	policy  Policy
	player  Player
	haptics Haptics
	logger  *slog.Logger

	mu      sync.RWMutex
	enabled bool
	music   bool
}

// NewDispatcher builds a dispatcher; nil sinks are skipped.
func NewDispatcher(policy Policy, player Player, haptics Haptics, logger *slog.Logger) *Dispatcher {
	if policy == nil {
		policy = DefaultPolicy{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		policy:  policy,
		player:  player,
		haptics: haptics,
		logger:  logger,
		enabled: true,
		music:   true,
	}
}

// Handle resolves and plays the cue for ev. Sink failures are logged, not returned:
// a missing vibration must never break a swipe.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) (Cue, error) {
	if !d.Enabled() {
		return Cue{Haptic: HapticNone}, nil
	}
	cue, err := d.policy.Cue(ev)
	if err != nil {
		return Cue{}, err
	}
	if d.haptics != nil && cue.Haptic != HapticNone {
		if err := d.haptics.Vibrate(ctx, cue.Haptic); err != nil {
			d.logger.WarnContext(ctx, "haptic failed", "haptic", cue.Haptic, "error", err)
		}
	}
	if d.player != nil && cue.Sound != "" {
		if err := d.player.Play(ctx, cue.Sound); err != nil {
			d.logger.WarnContext(ctx, "sound failed", "sound", cue.Sound, "error", err)
		}
	}
	return cue, nil
}

func (d *Dispatcher) Enabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

func (d *Dispatcher) SetEnabled(on bool) {
	d.mu.Lock()
	d.enabled = on
	d.mu.Unlock()
}

// Music reports whether background music should be playing.
func (d *Dispatcher) Music() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.music
}

// ToggleMusic flips background music and returns the new state.
func (d *Dispatcher) ToggleMusic() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.music = !d.music
	return d.music
}

func (d *Dispatcher) SetMusic(on bool) {
	d.mu.Lock()
	d.music = on
	d.mu.Unlock()
}

// LogSink logs cues instead of playing them. Used by headless hosts.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Play(ctx context.Context, sound string) error {
	s.Logger.DebugContext(ctx, "play sound", "sound", sound)
	return nil
}

func (s LogSink) Vibrate(ctx context.Context, h Haptic) error {
	s.Logger.DebugContext(ctx, "vibrate", "haptic", h)
	return nil
}
