package swipe

// Resolver sequences a committed swipe: exit animation, then after a fixed
// delay the recycle, the silent reset and the event.
//
// The recycle is driven by a timer of Motion.RecycleDelay rather than by an
// animation-completion signal from the host. If the host animates the exit
// for longer than the delay, the new top card can show before the old one is
// gone; keep RecycleDelay equal to or just above ExitDuration.
//
// At most one commit is in flight. Resolver is not safe for concurrent use;
// Deck serializes access to it.
type Resolver struct {
	motion    Motion
	sched     Scheduler
	resolving bool
	pending   Timer
	gen       uint64
}

func NewResolver(motion Motion, sched Scheduler) *Resolver {
	motion.ApplyDefaults()
	if sched == nil {
		sched = RealClock{}
	}
	return &Resolver{motion: motion, sched: sched}
}

// Resolving reports whether a commit is waiting for its recycle.
func (r *Resolver) Resolving() bool {
	return r.resolving
}

// Begin starts a commit in dir. It returns the exit offset and the transition
// that should drive the top card there, and schedules fire with the commit's
// generation once the recycle delay has elapsed.
// Returns false without side effects if a commit is already in flight.
func (r *Resolver) Begin(dir Direction, fire func(gen uint64)) (Offset, Transition, bool) {
	if r.resolving {
		return Offset{}, Transition{}, false
	}
	r.resolving = true
	r.gen++
	gen := r.gen
	r.pending = r.sched.AfterFunc(r.motion.RecycleDelay, func() { fire(gen) })
	return r.motion.ExitOffset(dir), Spring(r.motion.ExitDuration), true
}

// Complete ends the commit of generation gen. It returns false for a stale
// generation, i.e. a timer that outlived an Abandon.
func (r *Resolver) Complete(gen uint64) bool {
	if !r.resolving || gen != r.gen {
		return false
	}
	r.resolving = false
	r.pending = nil
	return true
}

// Abandon drops any in-flight commit without recycling.
func (r *Resolver) Abandon() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	r.resolving = false
	r.gen++
}

// Settle is the transition a cancelled card returns to rest with.
func (r *Resolver) Settle() Transition {
	return Spring(r.motion.SettleDuration)
}
