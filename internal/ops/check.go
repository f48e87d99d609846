package ops

import (
	"context"
	"fmt"

	"github.com/AhmyaBBA/Sound-Feedback/internal/config"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

type CheckReport struct {
	Addr      string  `json:"addr"`
	Threshold float64 `json:"threshold"`
	Profiles  int     `json:"profiles"`
	Top       string  `json:"top"`
	Visible   int     `json:"visible"`
}

// Check validates cfg and confirms the profile store yields a usable deck.
func Check(ctx context.Context, cfg *config.Config, store profile.Store) (CheckReport, error) {
	if err := cfg.Validate(); err != nil {
		return CheckReport{}, fmt.Errorf("config: %w", err)
	}
	ps, err := store.List(ctx)
	if err != nil {
		return CheckReport{}, fmt.Errorf("profiles: %w", err)
	}
	deck, err := swipe.NewDeck(profile.Cards(ps), cfg.Deck.SwipeOptions())
	if err != nil {
		return CheckReport{}, err
	}
	f := deck.Frame()
	r := CheckReport{
		Addr:      cfg.Server.Addr,
		Threshold: deck.Threshold(),
		Profiles:  f.Size,
		Visible:   len(f.Cards),
	}
	if len(f.Cards) > 0 {
		r.Top = string(f.Cards[0].Card.ID)
	}
	return r, nil
}
