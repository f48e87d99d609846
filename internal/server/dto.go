package server

import "github.com/AhmyaBBA/Sound-Feedback/internal/profile"

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthResponse struct {
	OK       bool   `json:"ok"`
	Service  string `json:"service"`
	Sessions int    `json:"sessions"`
	Time     string `json:"time"`
}

type ProfilesResponse struct {
	Profiles []profile.Profile `json:"profiles"`
	Count    int               `json:"count"`
}
