package model

// CardID is a stable unique identifier for a card. It survives recycling.
type CardID string

// Card is an identity-bearing record in a swipe deck.
// Payload is display data owned by the caller and never interpreted here;
// two cards may carry identical payloads and still be different cards.
type Card struct {
	ID      CardID         `json:"id"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewCard creates a card with the given ID and payload.
func NewCard(id CardID, payload map[string]any) Card {
	if payload == nil {
		payload = make(map[string]any)
	}
	return Card{
		ID:      id,
		Payload: payload,
	}
}

// Is reports whether c and other are the same card. Payload is ignored.
func (c Card) Is(other Card) bool {
	return c.ID == other.ID
}
