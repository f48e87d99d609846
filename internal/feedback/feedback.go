// Package feedback decides which haptic and sound cue the host plays for a
// swipe or tap. The deck itself only reports directions; everything here is
// host policy.
package feedback

import (
	"errors"

	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

type Kind string

const (
	KindSwipe Kind = "swipe"
	KindTap   Kind = "tap"
)

// Haptic is a vibration strength the host maps onto its platform API.
type Haptic string

const (
	HapticNone    Haptic = "none"
	HapticLight   Haptic = "light"
	HapticMedium  Haptic = "medium"
	HapticHeavy   Haptic = "heavy"
	HapticSuccess Haptic = "success"
)

var ErrUnknownHaptic = errors.New("unknown haptic")

// ParseHaptic accepts the names above; empty means none.
func ParseHaptic(s string) (Haptic, error) {
	switch h := Haptic(s); h {
	case "":
		return HapticNone, nil
	case HapticNone, HapticLight, HapticMedium, HapticHeavy, HapticSuccess:
		return h, nil
	default:
		return "", ErrUnknownHaptic
	}
}

// Event is something the user did that may deserve a cue.
type Event struct {
	Kind      Kind            `json:"kind"`
	Direction swipe.Direction `json:"direction,omitempty"`
	CardID    model.CardID    `json:"card_id,omitempty"`
}

// SwipeEvent adapts a deck swipe into a feedback event.
func SwipeEvent(ev swipe.SwipeEvent) Event {
	return Event{Kind: KindSwipe, Direction: ev.Direction, CardID: ev.Card.ID}
}

// Tap is a plain tap anywhere in the host UI.
func Tap() Event {
	return Event{Kind: KindTap}
}

// Cue is what to play. An empty Sound plays nothing.
type Cue struct {
	Haptic Haptic `json:"haptic"`
	Sound  string `json:"sound,omitempty"`
}

// Policy maps events to cues.
type Policy interface {
	Cue(ev Event) (Cue, error)
}

// DefaultPolicy gives accepts a stronger haptic than rejects.
type DefaultPolicy struct{}

func (DefaultPolicy) Cue(ev Event) (Cue, error) {
	switch ev.Kind {
	case KindSwipe:
		if ev.Direction == swipe.Right {
			return Cue{Haptic: HapticSuccess, Sound: "swipe_yes"}, nil
		}
		return Cue{Haptic: HapticLight, Sound: "swipe_later"}, nil
	case KindTap:
		return Cue{Haptic: HapticLight, Sound: "tap"}, nil
	default:
		return Cue{Haptic: HapticNone}, nil
	}
}
