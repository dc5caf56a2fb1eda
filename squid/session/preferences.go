package session

import (
	"context"
	"fmt"

	"codeberg.org/squidlabs/server/squid/preferences"
)

// PreferencesManager reads and writes the preference set mirrored
// between the live session and the durable user record. The durable
// copy is the source of truth; the session holds a working copy that
// drifts until the next save or session end.
type PreferencesManager struct {
	store Store
	users PreferenceWriter
}

// creates a preferences manager
func NewPreferencesManager(store Store, users PreferenceWriter) *PreferencesManager {
	return &PreferencesManager{
		store: store,
		users: users,
	}
}

// Set validates the preference set, writes it into the live session and,
// for an authenticated session, upserts the durable copy (full replace,
// not merge). Validation happens before any mutation. A session record
// is created when none exists: anonymous visitors may save preferences
// without starting a session.
func (pm *PreferencesManager) Set(ctx context.Context, sessionID string, p preferences.Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	s, err := pm.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if s == nil {
		s = &Session{SessionID: sessionID}
	}

	s.Preferences = &p

	if err := pm.store.Put(ctx, s); err != nil {
		return err
	}

	if s.UserID != "" && pm.users != nil {
		if err := pm.users.UpdatePreferences(ctx, s.UserID, p); err != nil {
			return fmt.Errorf("failed to persist preferences: %w", err)
		}
	}

	return nil
}

// Get returns the live session's preference copy, or nil when the
// session has none. Absence is a normal state, not a fault.
func (pm *PreferencesManager) Get(ctx context.Context, sessionID string) (*preferences.Preferences, error) {
	s, err := pm.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s == nil || s.Preferences == nil {
		return nil, nil
	}

	return s.Preferences, nil
}
