package telemetry

import "time"

type EventType string

const (
	EventSwipeRight       EventType = "swipe_right"
	EventSwipeLeft        EventType = "swipe_left"
	EventGestureCancelled EventType = "gesture_cancelled"
	EventDeckReplaced     EventType = "deck_replaced"
	EventTap              EventType = "tap"
	EventSessionOpened    EventType = "session_opened"
	EventSessionClosed    EventType = "session_closed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
