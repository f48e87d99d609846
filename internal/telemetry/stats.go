package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period        string            `json:"period"`
	EventCounts   map[EventType]int `json:"event_counts"`
	Swipes        int               `json:"swipes"`
	Accepts       int               `json:"accepts"`
	Rejects       int               `json:"rejects"`
	Cancels       int               `json:"cancels"`
	Taps          int               `json:"taps"`
	Sessions      int               `json:"sessions"`
	MatchPercent  float64           `json:"match_percent"`
	AcceptsByCard map[string]int    `json:"accepts_by_card"`
}

// CalculateStats derives swipe stats from events. MatchPercent is the share
// of completed swipes that were accepts, 0 when nothing was swiped.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:        since.Format("2006-01-02"),
		EventCounts:   make(map[EventType]int),
		AcceptsByCard: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if event.Metadata != "" {
			if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}

		switch event.Type {
		case EventSwipeRight:
			stats.Accepts++
			if cardID, ok := metadata["card_id"].(string); ok {
				stats.AcceptsByCard[cardID]++
			}
		case EventSwipeLeft:
			stats.Rejects++
		case EventGestureCancelled:
			stats.Cancels++
		case EventTap:
			stats.Taps++
		case EventSessionOpened:
			stats.Sessions++
		}
	}

	stats.Swipes = stats.Accepts + stats.Rejects
	if stats.Swipes > 0 {
		stats.MatchPercent = float64(stats.Accepts) / float64(stats.Swipes) * 100
	}

	return stats, nil
}
