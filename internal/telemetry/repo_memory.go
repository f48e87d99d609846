package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Repository stores telemetry events
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository stores events in memory for the life of the process.
// Swipe history is never written anywhere else.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
	limit  int
	now    func() time.Time
}

// NewMemoryRepository keeps at most limit events, dropping the oldest.
// limit <= 0 keeps everything.
func NewMemoryRepository(limit int) *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
		limit:  limit,
		now:    time.Now,
	}
}

// WithClock swaps the timestamp source. For tests.
func (r *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	return r
}

// RecordEvent appends an event stamped by the repository clock. Nil metadata
// is stored as an empty string.
func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	var encoded string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encode %s metadata: %w", eventType, err)
		}
		encoded = string(b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.now(),
		Metadata:  encoded,
	})
	r.nextID++

	if over := len(r.events) - r.limit; r.limit > 0 && over > 0 {
		n := copy(r.events, r.events[over:])
		clear(r.events[n:])
		r.events = r.events[:n]
	}
	return nil
}

// GetEvents returns events stamped at or after since, oldest first.
// No eventTypes means every type.
func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	want := typeSet(eventTypes)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for _, ev := range r.events {
		if ev.Timestamp.Before(since) {
			continue
		}
		if want != nil {
			if _, ok := want[ev.Type]; !ok {
				continue
			}
		}
		out = append(out, ev)
	}
	if out == nil {
		out = []Event{}
	}
	return out, nil
}

func typeSet(types []EventType) map[EventType]struct{} {
	if len(types) == 0 {
		return nil
	}
	set := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
