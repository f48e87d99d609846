package profile

import (
	"context"

	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
)

// Profile is the display data behind a card. The deck never reads it.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Bio      string   `json:"bio"`
	Gradient []string `json:"gradient"`
}

// Store provides the profile list a deck is built from.
type Store interface {
	List(ctx context.Context) ([]Profile, error)
}

// Card wraps p as an opaque deck card.
func (p Profile) Card() model.Card {
	return model.NewCard(model.CardID(p.ID), map[string]any{
		"name":     p.Name,
		"age":      p.Age,
		"bio":      p.Bio,
		"gradient": p.Gradient,
	})
}

// Cards converts profiles to cards, keeping order.
func Cards(ps []Profile) []model.Card {
	out := make([]model.Card, len(ps))
	for i, p := range ps {
		out[i] = p.Card()
	}
	return out
}
