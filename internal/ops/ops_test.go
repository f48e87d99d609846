package ops

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/AhmyaBBA/Sound-Feedback/internal/config"
	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

func cards(ids ...string) []model.Card {
	out := make([]model.Card, len(ids))
	for i, id := range ids {
		out[i] = model.NewCard(model.CardID(id), nil)
	}
	return out
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSimulate_RecyclesAndCounts(t *testing.T) {
	r, err := Simulate(context.Background(), cards("A", "B", "C"), "R L C T R", SimOptions{
		Deck:   swipe.Options{Strict: true},
		Policy: feedback.DefaultPolicy{},
		Logger: quiet(),
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if len(r.Steps) != 5 {
		t.Fatalf("steps = %d, want 5", len(r.Steps))
	}
	wantCards := []model.CardID{"A", "B", "", "", "C"}
	for i, want := range wantCards {
		got := r.Steps[i].Swipe
		if want == "" {
			if got != nil {
				t.Fatalf("step %d: unexpected swipe %+v", i, got)
			}
			continue
		}
		if got == nil || got.Card.ID != want {
			t.Fatalf("step %d: swipe = %+v, want card %s", i, got, want)
		}
	}
	if r.Steps[2].Decision != swipe.Cancel {
		t.Fatalf("nudge decision = %s", r.Steps[2].Decision)
	}
	if r.Steps[3].Cue == nil || r.Steps[3].Cue.Haptic != feedback.HapticLight {
		t.Fatalf("tap cue = %+v", r.Steps[3].Cue)
	}

	// Three swipes on three cards is a full rotation.
	if !reflect.DeepEqual(r.Order, []model.CardID{"A", "B", "C"}) {
		t.Fatalf("order = %v", r.Order)
	}
	if r.Stats.Swipes != 3 || r.Stats.Accepts != 2 || r.Stats.Cancels != 1 || r.Stats.Taps != 1 {
		t.Fatalf("stats = %+v", r.Stats)
	}
}

func TestSimulate_RejectsUnknownMove(t *testing.T) {
	_, err := Simulate(context.Background(), cards("A"), "RX", SimOptions{Logger: quiet()})
	if !errors.Is(err, ErrBadMove) {
		t.Fatalf("err = %v, want ErrBadMove", err)
	}
}

func TestSimulate_CustomThreshold(t *testing.T) {
	r, err := Simulate(context.Background(), cards("A", "B"), "R", SimOptions{
		Deck:   swipe.Options{Threshold: 300},
		Logger: quiet(),
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if r.Steps[0].Decision != swipe.CommitRight {
		t.Fatalf("decision = %s", r.Steps[0].Decision)
	}
	if !reflect.DeepEqual(r.Order, []model.CardID{"B", "A"}) {
		t.Fatalf("order = %v", r.Order)
	}
}

type brokenLog struct {
	telemetry.Repository
}

var errLogFull = errors.New("log full")

func (brokenLog) RecordEvent(telemetry.EventType, telemetry.EventMetadata) error {
	return errLogFull
}

func TestSimulate_ReportsEventLogErrors(t *testing.T) {
	for _, moves := range []string{"R", "C", "T"} {
		_, err := Simulate(context.Background(), cards("A", "B"), moves, SimOptions{
			Events: brokenLog{telemetry.NewMemoryRepository(0)},
			Logger: quiet(),
		})
		if !errors.Is(err, errLogFull) {
			t.Fatalf("moves %q: err = %v, want errLogFull", moves, err)
		}
	}
}

func TestCheck(t *testing.T) {
	r, err := Check(context.Background(), config.Default(), profile.NewEmbeddedStore())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if r.Profiles != 6 || r.Visible != 5 || r.Top != "p_ava" || r.Threshold != swipe.DefaultThreshold {
		t.Fatalf("report = %+v", r)
	}

	bad := config.Default()
	bad.Server.LogLevel = "shout"
	if _, err := Check(context.Background(), bad, profile.NewEmbeddedStore()); err == nil {
		t.Fatal("expected config error")
	}
}
