package session

import (
	"context"
	"time"

	"codeberg.org/squidlabs/server/squid/preferences"
)

// Activity is a single entry in a session's activity log
type Activity struct {
	Action    string    `json:"action" bson:"action"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Session is the ephemeral per-visitor state held in the key-value store.
// PagesVisited and ActivityLog grow monotonically until the session ends;
// a zero StartTime means the session was never started (or already ended).
type Session struct {
	SessionID    string                   `json:"session_id"`
	UserID       string                   `json:"user_id,omitempty"`
	StartTime    time.Time                `json:"start_time"`
	PagesVisited []string                 `json:"pages_visited"`
	ActivityLog  []Activity               `json:"activity_log"`
	Preferences  *preferences.Preferences `json:"preferences,omitempty"`
}

// reports whether the session has been started and not yet ended
func (s *Session) Active() bool {
	return s != nil && !s.StartTime.IsZero()
}

// Summary is the projection of a completed session that gets appended
// to the owning user's durable record when an authenticated session ends.
// A session expired by TTL never produces a summary; that loss is accepted.
type Summary struct {
	StartTime    time.Time     `json:"start_time" bson:"start_time"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	PagesVisited []string      `json:"pages_visited" bson:"pages_visited"`
	ActivityLog  []Activity    `json:"activity_log" bson:"activity_log"`
}

// Store defines how ephemeral sessions are stored and retrieved.
// Get returns (nil, nil) when no session exists for the ID.
// Put refreshes the TTL on every write.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// Recorder persists completed session summaries into the owning
// user's durable record.
type Recorder interface {
	AppendSession(ctx context.Context, userID string, s Summary) error
}

// PreferenceWriter upserts the durable copy of a user's preference set
type PreferenceWriter interface {
	UpdatePreferences(ctx context.Context, userID string, p preferences.Preferences) error
}

// PagePublisher propagates page-visit events to the notification channel
type PagePublisher interface {
	PublishPageVisit(ctx context.Context, sessionID, userID, page string) error
}
