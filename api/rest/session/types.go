package session

import (
	"time"

	"codeberg.org/squidlabs/server/squid/session"
)

type LogPageRequest struct {
	Page string `json:"page"`
}

type LogActionRequest struct {
	Action string `json:"action"`
}

// MessageResponse is the generic acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// SummaryResponse describes the active session
type SummaryResponse struct {
	StartTime       time.Time `json:"start_time"`
	PagesVisited    []string  `json:"pages_visited"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// LogsResponse is a single page of the activity log
type LogsResponse struct {
	Logs       []session.Activity `json:"logs"`
	TotalPages int                `json:"total_pages"`
}
