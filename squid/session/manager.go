package session

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/squidlabs/server/internal/logger"
	"codeberg.org/squidlabs/server/squid/preferences"
)

const (
	defaultLogsPage  = 1
	defaultLogsLimit = 10
)

// Manager drives the session lifecycle: NONE -> ACTIVE -> ENDED, with
// TTL expiry as the implicit terminal state. On explicit end of an
// authenticated session the summary is flushed to the durable record;
// TTL expiry flushes nothing.
type Manager struct {
	store     Store
	recorder  Recorder
	publisher PagePublisher // optional, nil disables page-visit events
}

// creates a session lifecycle manager
func NewManager(store Store, recorder Recorder, publisher PagePublisher) *Manager {
	return &Manager{
		store:     store,
		recorder:  recorder,
		publisher: publisher,
	}
}

// loads the session and fails unless it is active
func (m *Manager) active(ctx context.Context, sessionID string) (*Session, error) {
	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.Active() {
		return nil, ErrSessionNotFound
	}

	return s, nil
}

// Start begins a session, overwriting any stale fields from a previous
// one. An authenticated identity and preference copy carried by the
// session survive the reset. Always resets; never additive.
func (m *Manager) Start(ctx context.Context, sessionID string) error {
	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if s == nil {
		s = &Session{SessionID: sessionID}
	}

	s.StartTime = time.Now()
	s.PagesVisited = []string{}
	s.ActivityLog = []Activity{}

	return m.store.Put(ctx, s)
}

// LogPage appends a page identifier to the active session's visit
// sequence and publishes a page-visit event to the notification channel.
// Publish failures are logged, never surfaced: delivery is at most once
// and the durable mirror is eventually consistent.
func (m *Manager) LogPage(ctx context.Context, sessionID, page string) error {
	if page == "" {
		return ErrEmptyPage
	}

	s, err := m.active(ctx, sessionID)
	if err != nil {
		return err
	}

	s.PagesVisited = append(s.PagesVisited, page)

	if err := m.store.Put(ctx, s); err != nil {
		return err
	}

	if m.publisher != nil {
		if err := m.publisher.PublishPageVisit(ctx, sessionID, s.UserID, page); err != nil {
			logger.ErrorErr(err, "failed to publish page visit", "session_id", sessionID)
		}
	}

	return nil
}

// LogAction appends a timestamped action to the active session's
// activity log.
func (m *Manager) LogAction(ctx context.Context, sessionID, action string) error {
	if action == "" {
		return ErrEmptyAction
	}

	s, err := m.active(ctx, sessionID)
	if err != nil {
		return err
	}

	s.ActivityLog = append(s.ActivityLog, Activity{
		Action:    action,
		Timestamp: time.Now(),
	})

	return m.store.Put(ctx, s)
}

// Summary returns the active session's projection with its running
// duration.
func (m *Manager) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	s, err := m.active(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		StartTime:    s.StartTime,
		Duration:     max(time.Since(s.StartTime), 0),
		PagesVisited: s.PagesVisited,
		ActivityLog:  s.ActivityLog,
	}, nil
}

// PaginatedLogs returns the [(page-1)*limit, page*limit) slice of the
// activity log and the total page count. Page and limit default to 1/10;
// a page beyond the log length yields an empty slice, never an error.
func (m *Manager) PaginatedLogs(ctx context.Context, sessionID string, page, limit int) ([]Activity, int, error) {
	if page <= 0 {
		page = defaultLogsPage
	}

	if limit <= 0 {
		limit = defaultLogsLimit
	}

	s, err := m.active(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	total := len(s.ActivityLog)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start >= total {
		return []Activity{}, totalPages, nil
	}

	end := min(start+limit, total)

	return s.ActivityLog[start:end], totalPages, nil
}

// End terminates the session. For an authenticated session the summary
// is appended to the user's durable record first; a failed append is
// reported to the caller but the ephemeral session is destroyed
// regardless (best-effort durability, guaranteed cleanup).
func (m *Manager) End(ctx context.Context, sessionID string) error {
	s, err := m.active(ctx, sessionID)
	if err != nil {
		return err
	}

	var appendErr error

	if s.UserID != "" && m.recorder != nil {
		summary := Summary{
			StartTime:    s.StartTime,
			Duration:     max(time.Since(s.StartTime), 0),
			PagesVisited: s.PagesVisited,
			ActivityLog:  s.ActivityLog,
		}

		appendErr = m.recorder.AppendSession(ctx, s.UserID, summary)
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	if appendErr != nil {
		return fmt.Errorf("failed to persist session summary: %w", appendErr)
	}

	return nil
}

// Destroy drops the session without flushing anything (logout path)
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Authenticate binds the session to a user identity and seeds the live
// preference copy from the durable record. Creates the session record
// when none exists yet.
func (m *Manager) Authenticate(ctx context.Context, sessionID, userID string, prefs preferences.Preferences) error {
	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if s == nil {
		s = &Session{SessionID: sessionID}
	}

	s.UserID = userID
	s.Preferences = &prefs

	return m.store.Put(ctx, s)
}
