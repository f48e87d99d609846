package swipe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
)

// Options configures a Deck. Zero values take defaults.
type Options struct {
	Threshold float64
	Presenter Presenter
	Motion    Motion
	Scheduler Scheduler
	Logger    *slog.Logger

	// Strict panics on contract violations (resolve on an empty stack)
	// instead of logging and ignoring them. Use in tests and debug builds.
	Strict bool

	// OnSwipe receives one event per completed swipe.
	OnSwipe func(SwipeEvent)
}

// Frame is a read-only snapshot of everything the host needs to draw.
// Version increases with every state change; observers may receive frames
// from different goroutines and should drop any older than the last seen.
type Frame struct {
	Cards     []RenderedCard `json:"cards"`
	Size      int            `json:"size"`
	Drag      DragState      `json:"drag"`
	Resolving bool           `json:"resolving"`
	Version   uint64         `json:"version"`
}

type observer struct {
	id int
	fn func(Frame)
}

// Deck is the swipe deck component: a card stack, a drag on its top card
// and the commit sequence that recycles swiped cards to the bottom.
type Deck struct {
	mu         sync.Mutex
	stack      *model.Stack
	drag       DragState
	transition Transition
	version    uint64

	tracker   Tracker
	presenter Presenter
	resolver  *Resolver
	logger    *slog.Logger
	strict    bool

	onSwipe   func(SwipeEvent)
	observers []observer
	nextObsID int
}

// NewDeck creates a deck over cards in order; cards[0] is the top card.
// Duplicate or empty card ids are always returned as an error, in strict
// mode too; Strict only governs runtime contract violations.
func NewDeck(cards []model.Card, opts Options) (*Deck, error) {
	stack, err := model.NewStack(cards)
	if err != nil {
		return nil, fmt.Errorf("new deck: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Presenter.ApplyDefaults()

	return &Deck{
		stack:      stack,
		transition: Instant,
		tracker:    NewTracker(opts.Threshold),
		presenter:  opts.Presenter,
		resolver:   NewResolver(opts.Motion, opts.Scheduler),
		logger:     opts.Logger,
		strict:     opts.Strict,
		onSwipe:    opts.OnSwipe,
	}, nil
}

// OnSwipe replaces the swipe event sink.
func (d *Deck) OnSwipe(fn func(SwipeEvent)) {
	d.mu.Lock()
	d.onSwipe = fn
	d.mu.Unlock()
}

// Subscribe registers fn to receive a fresh Frame after every state change.
// The returned func removes the subscription.
func (d *Deck) Subscribe(fn func(Frame)) (cancel func()) {
	d.mu.Lock()
	d.nextObsID++
	id := d.nextObsID
	d.observers = append(d.observers, observer{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Frame returns the current render snapshot.
func (d *Deck) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frameLocked()
}

// Cards returns the current stack order.
func (d *Deck) Cards() []model.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.Cards()
}

// Threshold returns the commit distance in use.
func (d *Deck) Threshold() float64 {
	return d.tracker.Threshold
}

// GestureUpdate feeds the latest translation of the drag on the top card.
// Ignored when there is no interactive top card.
func (d *Deck) GestureUpdate(dx, dy float64) {
	d.mu.Lock()
	if !d.interactiveLocked() {
		d.mu.Unlock()
		return
	}
	d.drag = d.tracker.Update(d.drag, Offset{X: dx, Y: dy})
	d.transition = Instant
	d.commitLocked()
}

// GestureEnd finishes the drag at the given translation and returns the decision.
// A commit starts the exit sequence; a cancel springs the card back to rest.
func (d *Deck) GestureEnd(dx, dy float64) Decision {
	d.mu.Lock()
	if !d.interactiveLocked() {
		d.mu.Unlock()
		return Cancel
	}
	d.drag = d.tracker.Update(d.drag, Offset{X: dx, Y: dy})
	decision := d.tracker.Decide(d.drag.Offset)

	dir, ok := decision.Direction()
	if !ok {
		d.settleLocked()
		d.commitLocked()
		return decision
	}
	d.resolveLocked(dir)
	d.commitLocked()
	return decision
}

// Abort ends an active drag as if it had been released below the threshold.
func (d *Deck) Abort() {
	d.mu.Lock()
	if !d.interactiveLocked() || !d.drag.Active {
		d.mu.Unlock()
		return
	}
	d.settleLocked()
	d.commitLocked()
}

// Resolve commits the top card in dir without a gesture.
// Returns false if a commit is already in flight or the stack is empty.
func (d *Deck) Resolve(dir Direction) bool {
	d.mu.Lock()
	if d.resolver.Resolving() {
		d.mu.Unlock()
		return false
	}
	if d.stack.IsEmpty() {
		d.mu.Unlock()
		d.violation("resolve on empty stack", "direction", dir)
		return false
	}
	d.resolveLocked(dir)
	d.commitLocked()
	return true
}

// Replace swaps the whole card list, resetting order and drag state.
// Any in-flight commit is dropped without recycling or an event.
func (d *Deck) Replace(cards []model.Card) error {
	d.mu.Lock()
	if err := d.stack.Replace(cards); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("replace deck: %w", err)
	}
	d.resolver.Abandon()
	d.drag = DragState{}
	d.transition = Instant
	d.commitLocked()
	return nil
}

func (d *Deck) interactiveLocked() bool {
	return !d.stack.IsEmpty() && !d.resolver.Resolving()
}

func (d *Deck) settleLocked() {
	d.drag = DragState{}
	d.transition = d.resolver.Settle()
}

// resolveLocked drives the top card off-screen and schedules the recycle.
// The drag offset is not reset here: the card keeps moving into its exit.
func (d *Deck) resolveLocked(dir Direction) {
	top, _ := d.stack.Top()
	exit, tr, ok := d.resolver.Begin(dir, func(gen uint64) {
		d.finishResolve(gen, dir, top)
	})
	if !ok {
		return
	}
	d.drag = DragState{Offset: exit}
	d.transition = tr
	d.logger.Debug("swipe committed", "card_id", top.ID, "direction", dir)
}

func (d *Deck) finishResolve(gen uint64, dir Direction, top model.Card) {
	d.mu.Lock()
	if !d.resolver.Complete(gen) {
		d.mu.Unlock()
		return
	}
	d.stack.Recycle()
	d.drag = DragState{}
	d.transition = Instant
	sink := d.onSwipe
	d.commitLocked()

	if sink != nil {
		sink(SwipeEvent{Direction: dir, Card: top})
	}
}

// commitLocked bumps the version, then releases the lock and notifies
// observers with the new frame.
func (d *Deck) commitLocked() {
	d.version++
	frame := d.frameLocked()
	obs := make([]observer, len(d.observers))
	copy(obs, d.observers)
	d.mu.Unlock()

	for _, o := range obs {
		o.fn(frame)
	}
}

func (d *Deck) frameLocked() Frame {
	cards := d.stack.Cards()
	return Frame{
		Cards:     d.presenter.Render(cards, d.drag, d.transition),
		Size:      len(cards),
		Drag:      d.drag,
		Resolving: d.resolver.Resolving(),
		Version:   d.version,
	}
}

func (d *Deck) violation(msg string, args ...any) {
	if d.strict {
		panic("swipe: " + msg)
	}
	d.logger.Debug("ignored contract violation: "+msg, args...)
}
