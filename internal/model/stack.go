package model

import "fmt"

// Stack is an ordered sequence of cards.
// Cards are ordered top-to-bottom: index 0 is the top (frontmost, interactive) card.
type Stack struct {
	cards []Card
}

// NewStack creates a stack from the given cards in order.
// Returns ErrDuplicateCard or ErrEmptyCardID if the list is not a valid stack.
func NewStack(cards []Card) (*Stack, error) {
	s := &Stack{}
	if err := s.Replace(cards); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the number of cards in the stack.
func (s *Stack) Size() int {
	return len(s.cards)
}

// IsEmpty returns true if the stack has no cards.
func (s *Stack) IsEmpty() bool {
	return len(s.cards) == 0
}

// Top returns the top card, or false if empty.
func (s *Stack) Top() (Card, bool) {
	return s.At(0)
}

// At returns the card at index i, or false if out of range.
func (s *Stack) At(i int) (Card, bool) {
	if i < 0 || i >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[i], true
}

// Cards returns a copy of the cards in stack order.
func (s *Stack) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// IDs returns the card IDs in stack order.
func (s *Stack) IDs() []CardID {
	out := make([]CardID, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.ID
	}
	return out
}

// Recycle moves the top card to the tail and returns it.
// Returns false if empty (soft failure).
// Example: [A,B,C,D] => [B,C,D,A], returns A. A single-card stack is unchanged.
func (s *Stack) Recycle() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	top := s.cards[0]
	copy(s.cards, s.cards[1:])
	s.cards[len(s.cards)-1] = top
	return top, true
}

// Replace swaps the whole card list, resetting stack order.
// The stack is left untouched if the new list is invalid.
func (s *Stack) Replace(cards []Card) error {
	if err := validate(cards); err != nil {
		return err
	}
	next := make([]Card, len(cards))
	copy(next, cards)
	s.cards = next
	return nil
}

func validate(cards []Card) error {
	seen := make(map[CardID]struct{}, len(cards))
	for i, c := range cards {
		if c.ID == "" {
			return fmt.Errorf("card at index %d: %w", i, ErrEmptyCardID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("card %q: %w", c.ID, ErrDuplicateCard)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
