package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/squidlabs/server/squid/preferences"
)

// records durable preference upserts in memory
type fakePrefWriter struct {
	upserts  map[string]preferences.Preferences
	failWith error
}

func newFakePrefWriter() *fakePrefWriter {
	return &fakePrefWriter{upserts: make(map[string]preferences.Preferences)}
}

func (f *fakePrefWriter) UpdatePreferences(_ context.Context, userID string, p preferences.Preferences) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.upserts[userID] = p
	return nil
}

func TestPreferences_SetThenGetRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	pm := NewPreferencesManager(store, newFakePrefWriter())
	ctx := context.Background()

	want := preferences.Preferences{Theme: "dark", Notifications: "disabled", Language: "Dutch"}
	require.NoError(t, pm.Set(ctx, "sess-1", want))

	got, err := pm.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestPreferences_GetWithoutSet(t *testing.T) {
	pm := NewPreferencesManager(NewMemoryStore(time.Hour), newFakePrefWriter())

	got, err := pm.Get(context.Background(), "sess-1")
	require.NoError(t, err, "absence of preferences is not a fault")
	assert.Nil(t, got)
}

func TestPreferences_InvalidThemeRejectedWithoutMutation(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	pm := NewPreferencesManager(store, newFakePrefWriter())
	ctx := context.Background()

	existing := preferences.Preferences{Theme: "light", Notifications: "enabled", Language: "English"}
	require.NoError(t, pm.Set(ctx, "sess-1", existing))

	invalid := preferences.Preferences{Theme: "purple", Notifications: "enabled", Language: "English"}
	err := pm.Set(ctx, "sess-1", invalid)

	require.ErrorIs(t, err, ErrInvalidPreferences)

	got, getErr := pm.Get(ctx, "sess-1")
	require.NoError(t, getErr)
	require.NotNil(t, got)
	assert.Equal(t, existing, *got, "existing preferences stay unchanged")
}

func TestPreferences_AnonymousSessionSkipsDurableWrite(t *testing.T) {
	writer := newFakePrefWriter()
	pm := NewPreferencesManager(NewMemoryStore(time.Hour), writer)
	ctx := context.Background()

	require.NoError(t, pm.Set(ctx, "sess-1", preferences.Defaults()))

	assert.Empty(t, writer.upserts)
}

func TestPreferences_AuthenticatedSessionUpsertsDurableCopy(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	writer := newFakePrefWriter()
	mgr := NewManager(store, newFakeRecorder(), nil)
	pm := NewPreferencesManager(store, writer)
	ctx := context.Background()

	require.NoError(t, mgr.Authenticate(ctx, "sess-1", "user-1", preferences.Defaults()))

	want := preferences.Preferences{Theme: "dark", Notifications: "enabled", Language: "Korean"}
	require.NoError(t, pm.Set(ctx, "sess-1", want))

	assert.Equal(t, want, writer.upserts["user-1"], "durable copy is a full replace")
}

func TestPreferences_DurableWriteFailureSurfaced(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	writer := newFakePrefWriter()
	writer.failWith = assert.AnError
	mgr := NewManager(store, newFakeRecorder(), nil)
	pm := NewPreferencesManager(store, writer)
	ctx := context.Background()

	require.NoError(t, mgr.Authenticate(ctx, "sess-1", "user-1", preferences.Defaults()))

	err := pm.Set(ctx, "sess-1", preferences.Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist preferences")
}
