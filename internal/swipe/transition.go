package swipe

import (
	"encoding/json"
	"time"
)

// Easing names the curve the host should animate a change with.
type Easing string

const (
	EasingNone   Easing = "none"
	EasingSpring Easing = "spring"
)

// Transition describes how the host should animate into the current frame.
type Transition struct {
	Easing   Easing
	Duration time.Duration
}

// MarshalJSON reports the duration in milliseconds, the unit hosts animate in.
func (t Transition) MarshalJSON() ([]byte, error) {
	easing := t.Easing
	if easing == "" {
		easing = EasingNone
	}
	return json.Marshal(struct {
		Easing     Easing `json:"easing"`
		DurationMS int64  `json:"duration_ms"`
	}{easing, t.Duration.Milliseconds()})
}

// Instant is a visually silent change: no tween.
var Instant = Transition{Easing: EasingNone}

// Spring returns a spring-like transition lasting d.
func Spring(d time.Duration) Transition {
	return Transition{Easing: EasingSpring, Duration: d}
}

// Motion holds the timing and geometry of exit and settle animations.
type Motion struct {
	ExitX          float64
	ExitDriftY     float64
	ExitDuration   time.Duration
	RecycleDelay   time.Duration
	SettleDuration time.Duration
}

// DefaultMotion matches a short spring exit with a recycle delay equal to its duration.
func DefaultMotion() Motion {
	return Motion{
		ExitX:          1000,
		ExitDriftY:     40,
		ExitDuration:   280 * time.Millisecond,
		RecycleDelay:   280 * time.Millisecond,
		SettleDuration: 280 * time.Millisecond,
	}
}

// ApplyDefaults fills zero fields from DefaultMotion. ExitDriftY is kept as
// given, so 0 means a purely horizontal exit; a zero Motion as a whole takes
// DefaultMotion including its drift.
func (m *Motion) ApplyDefaults() {
	d := DefaultMotion()
	if *m == (Motion{}) {
		*m = d
		return
	}
	if m.ExitX <= 0 {
		m.ExitX = d.ExitX
	}
	if m.ExitDuration <= 0 {
		m.ExitDuration = d.ExitDuration
	}
	if m.RecycleDelay <= 0 {
		m.RecycleDelay = m.ExitDuration
	}
	if m.SettleDuration <= 0 {
		m.SettleDuration = d.SettleDuration
	}
}

// ExitOffset is the off-screen resting point for a card leaving in dir.
func (m Motion) ExitOffset(dir Direction) Offset {
	x := m.ExitX
	if dir == Left {
		x = -x
	}
	return Offset{X: x, Y: m.ExitDriftY}
}
