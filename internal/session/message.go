package session

import "encoding/json"

// Inbound message types.
const (
	TypeDrag    = "drag"
	TypeRelease = "release"
	TypeAbort   = "abort"
	TypeTap     = "tap"
	TypeReset   = "reset"
	TypeMusic   = "music"
)

// Outbound message types.
const (
	TypeHello    = "hello"
	TypeFrame    = "frame"
	TypeDecision = "decision"
	TypeSwipe    = "swipe"
	TypeCue      = "cue"
	TypeError    = "error"
)

// Msg is the wire envelope in both directions: a type and its payload.
type Msg struct {
	T string          `json:"t"`
	M json.RawMessage `json:"m,omitempty"`
}

type outMsg struct {
	T string `json:"t"`
	M any    `json:"m,omitempty"`
}

// Gesture is a translation sample since gesture start.
type Gesture struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type Hello struct {
	SessionID string  `json:"session_id"`
	Threshold float64 `json:"threshold"`
	Music     bool    `json:"music"`
}

type DecisionMsg struct {
	Decision string `json:"decision"`
}

type MusicMsg struct {
	On bool `json:"on"`
}

type ErrorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
