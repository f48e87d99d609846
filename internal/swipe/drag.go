package swipe

import "math"

// DefaultThreshold is the horizontal distance a drag must exceed to commit.
const DefaultThreshold = 120.0

// Offset is a 2D translation from gesture start.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DragState is the transient drag of the top card.
type DragState struct {
	Offset Offset `json:"offset"`
	Active bool   `json:"active"`
}

// Tracker turns gesture samples into drag state and a release decision.
type Tracker struct {
	Threshold float64
}

// NewTracker returns a tracker with the given threshold, falling back to
// DefaultThreshold for non-positive or non-finite values.
func NewTracker(threshold float64) Tracker {
	if !finite(threshold) || threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Tracker{Threshold: threshold}
}

// Update applies the latest translation. Only the most recent sample matters.
// Non-finite components keep the last known-good value.
func (t Tracker) Update(s DragState, translation Offset) DragState {
	next := s.Offset
	if finite(translation.X) {
		next.X = translation.X
	}
	if finite(translation.Y) {
		next.Y = translation.Y
	}
	return DragState{Offset: next, Active: true}
}

// Decide compares horizontal displacement against the threshold.
// Vertical displacement never affects the outcome.
func (t Tracker) Decide(translation Offset) Decision {
	dx := translation.X
	switch {
	case !finite(dx):
		return Cancel
	case dx > t.Threshold:
		return CommitRight
	case dx < -t.Threshold:
		return CommitLeft
	default:
		return Cancel
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
