package swipe

import "github.com/AhmyaBBA/Sound-Feedback/internal/model"

// CardTransform is the visual placement of one card in the deck.
type CardTransform struct {
	OffsetX         float64 `json:"offset_x"`
	OffsetY         float64 `json:"offset_y"`
	RotationDegrees float64 `json:"rotation_degrees"`
	Scale           float64 `json:"scale"`
	ZOrder          int     `json:"z_order"`
}

// RenderedCard is what the host draws for each visible card.
type RenderedCard struct {
	Card model.Card `json:"card"`
	CardTransform
	IsTop      bool       `json:"is_top"`
	Transition Transition `json:"transition"`
}

// Presenter maps stack position and drag state to card transforms.
// It holds tuning only and keeps no state between calls.
type Presenter struct {
	RotationDivisor float64 // degrees of tilt per unit of horizontal drag is 1/RotationDivisor
	BaseScale       float64 // scale of the card directly beneath the top
	ScaleStep       float64 // shrink per level of depth below that
	VisibleWindow   int     // cards rendered from the top; <= 0 renders all
}

// DefaultPresenter returns the standard deck look.
func DefaultPresenter() Presenter {
	return Presenter{
		RotationDivisor: 15,
		BaseScale:       0.96,
		ScaleStep:       0.02,
		VisibleWindow:   5,
	}
}

// ApplyDefaults fills zero fields from DefaultPresenter.
func (p *Presenter) ApplyDefaults() {
	d := DefaultPresenter()
	if p.RotationDivisor == 0 || !finite(p.RotationDivisor) {
		p.RotationDivisor = d.RotationDivisor
	}
	if p.BaseScale <= 0 {
		p.BaseScale = d.BaseScale
	}
	if p.ScaleStep <= 0 || !finite(p.ScaleStep) {
		p.ScaleStep = d.ScaleStep
	}
	if p.VisibleWindow == 0 {
		p.VisibleWindow = d.VisibleWindow
	}
}

// Transform computes the transform of the card at index using DefaultPresenter.
func Transform(index, stackSize int, drag Offset) CardTransform {
	return DefaultPresenter().Transform(index, stackSize, drag)
}

// Transform computes the transform of the card at index in a stack of stackSize.
// Only index 0 follows the drag; deeper cards sit at rest and shrink with depth.
func (p Presenter) Transform(index, stackSize int, drag Offset) CardTransform {
	tr := CardTransform{
		Scale:  1,
		ZOrder: stackSize - index,
	}
	if index == 0 {
		if finite(drag.X) {
			tr.OffsetX = drag.X
			if p.RotationDivisor != 0 {
				tr.RotationDegrees = drag.X / p.RotationDivisor
			}
		}
		if finite(drag.Y) {
			tr.OffsetY = drag.Y
		}
		return tr
	}
	tr.Scale = max(0, p.BaseScale-float64(index-1)*p.ScaleStep)
	return tr
}

// Render lays out the visible window of cards. Only the top card carries
// the drag offset and the transition.
func (p Presenter) Render(cards []model.Card, drag DragState, transition Transition) []RenderedCard {
	n := len(cards)
	if p.VisibleWindow > 0 && n > p.VisibleWindow {
		n = p.VisibleWindow
	}
	out := make([]RenderedCard, n)
	for i := 0; i < n; i++ {
		rc := RenderedCard{
			Card:          cards[i],
			CardTransform: p.Transform(i, len(cards), drag.Offset),
			IsTop:         i == 0,
			Transition:    Instant,
		}
		if i == 0 {
			rc.Transition = transition
		}
		out[i] = rc
	}
	return out
}
