package swipe

import "github.com/AhmyaBBA/Sound-Feedback/internal/model"

// Direction is the side a committed card leaves the deck on.
type Direction string

const (
	Left  Direction = "left"  // reject, "maybe later"
	Right Direction = "right" // accept, "yes"
)

// Decision is the outcome of a finished gesture.
type Decision string

const (
	Cancel      Decision = "cancel"
	CommitLeft  Decision = "commit_left"
	CommitRight Decision = "commit_right"
)

// Direction returns the committed direction, or false for Cancel.
func (d Decision) Direction() (Direction, bool) {
	switch d {
	case CommitLeft:
		return Left, true
	case CommitRight:
		return Right, true
	default:
		return "", false
	}
}

// SwipeEvent is delivered to the host once per completed swipe.
// Card is the top card as it was before recycling.
type SwipeEvent struct {
	Direction Direction  `json:"direction"`
	Card      model.Card `json:"card"`
}
