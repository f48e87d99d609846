package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

var ErrBadMove = errors.New("unknown move")

// Moves understood by Simulate. Swipes release well past the threshold,
// nudges release well short of it.
const (
	MoveRight = 'R'
	MoveLeft  = 'L'
	MoveNudge = 'C'
	MoveTap   = 'T'
)

var simStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type Step struct {
	Move     string            `json:"move"`
	Decision swipe.Decision    `json:"decision,omitempty"`
	Swipe    *swipe.SwipeEvent `json:"swipe,omitempty"`
	Cue      *feedback.Cue     `json:"cue,omitempty"`
}

type Report struct {
	Steps []Step          `json:"steps"`
	Order []model.CardID  `json:"order"`
	Stats telemetry.Stats `json:"stats"`
}

// SimOptions configures Simulate. Zero values take defaults.
type SimOptions struct {
	Deck   swipe.Options
	Policy feedback.Policy
	// Events receives the swipe log; a fresh memory log on the fake clock when nil.
	Events telemetry.Repository
	Logger *slog.Logger
}

// Simulate replays moves against a deck on a fake clock and reports what a
// host would have seen: decisions, swipe events, cues and the final stats.
func Simulate(ctx context.Context, cards []model.Card, moves string, so SimOptions) (Report, error) {
	logger := so.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := swipe.NewFakeClock(simStart)
	events := so.Events
	if events == nil {
		events = telemetry.NewMemoryRepository(0).WithClock(clock.Now)
	}
	dispatch := feedback.NewDispatcher(so.Policy, nil, nil, logger)

	var last *swipe.SwipeEvent
	opts := so.Deck
	opts.Scheduler = clock
	opts.Logger = logger
	opts.OnSwipe = func(ev swipe.SwipeEvent) { last = &ev }
	deck, err := swipe.NewDeck(cards, opts)
	if err != nil {
		return Report{}, err
	}

	motion := opts.Motion
	motion.ApplyDefaults()
	swipeDX := 2 * deck.Threshold()
	nudgeDX := deck.Threshold() / 3

	var steps []Step
	for i, m := range moves {
		if unicode.IsSpace(m) {
			continue
		}
		step := Step{Move: string(m)}
		var ev feedback.Event

		switch unicode.ToUpper(m) {
		case MoveRight, MoveLeft, MoveNudge:
			dx := swipeDX
			switch unicode.ToUpper(m) {
			case MoveLeft:
				dx = -swipeDX
			case MoveNudge:
				dx = nudgeDX
			}
			deck.GestureUpdate(dx/2, 0)
			step.Decision = deck.GestureEnd(dx, 0)
			if step.Decision == swipe.Cancel {
				if err := events.RecordEvent(telemetry.EventGestureCancelled, nil); err != nil {
					return Report{}, fmt.Errorf("move %d: %w", i, err)
				}
				clock.Advance(motion.SettleDuration)
				break
			}
			last = nil
			clock.Advance(motion.RecycleDelay)
			if last == nil {
				return Report{}, fmt.Errorf("move %d: swipe did not complete", i)
			}
			step.Swipe = last
			t := telemetry.EventSwipeLeft
			if last.Direction == swipe.Right {
				t = telemetry.EventSwipeRight
			}
			if err := events.RecordEvent(t, telemetry.EventMetadata{"card_id": string(last.Card.ID)}); err != nil {
				return Report{}, fmt.Errorf("move %d: %w", i, err)
			}
			ev = feedback.SwipeEvent(*last)

		case MoveTap:
			if err := events.RecordEvent(telemetry.EventTap, nil); err != nil {
				return Report{}, fmt.Errorf("move %d: %w", i, err)
			}
			ev = feedback.Tap()

		default:
			return Report{}, fmt.Errorf("move %d %q: %w", i, m, ErrBadMove)
		}

		if ev.Kind != "" {
			cue, err := dispatch.Handle(ctx, ev)
			if err != nil {
				return Report{}, fmt.Errorf("move %d: %w", i, err)
			}
			step.Cue = &cue
		}
		steps = append(steps, step)
	}

	recorded, err := events.GetEvents(time.Time{}, nil)
	if err != nil {
		return Report{}, err
	}
	stats, err := telemetry.CalculateStats(recorded, simStart)
	if err != nil {
		return Report{}, err
	}

	cur := deck.Cards()
	order := make([]model.CardID, len(cur))
	for i, c := range cur {
		order[i] = c.ID
	}
	return Report{Steps: steps, Order: order, Stats: stats}, nil
}
