package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/squidlabs/server/squid/preferences"
)

// records appended summaries in memory
type fakeRecorder struct {
	appended map[string][]Summary
	failWith error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{appended: make(map[string][]Summary)}
}

func (f *fakeRecorder) AppendSession(_ context.Context, userID string, s Summary) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.appended[userID] = append(f.appended[userID], s)
	return nil
}

// records published page visits in memory
type fakePublisher struct {
	published []string
	failWith  error
}

func (f *fakePublisher) PublishPageVisit(_ context.Context, _, _, page string) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.published = append(f.published, page)
	return nil
}

func newTestManager() (*Manager, *fakeRecorder) {
	recorder := newFakeRecorder()
	return NewManager(NewMemoryStore(time.Hour), recorder, nil), recorder
}

func TestStart_CreatesActiveSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	summary, err := mgr.Summary(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, summary.StartTime.IsZero())
	assert.Empty(t, summary.PagesVisited)
	assert.Empty(t, summary.ActivityLog)
	assert.GreaterOrEqual(t, summary.Duration, time.Duration(0))
}

func TestStart_ResetsPreviousSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))
	require.NoError(t, mgr.LogPage(ctx, "sess-1", "/home"))
	require.NoError(t, mgr.LogAction(ctx, "sess-1", "click"))

	// restarting overwrites stale fields
	require.NoError(t, mgr.Start(ctx, "sess-1"))

	summary, err := mgr.Summary(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, summary.PagesVisited)
	assert.Empty(t, summary.ActivityLog)
}

func TestStart_PreservesIdentityAndPreferences(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	recorder := newFakeRecorder()
	mgr := NewManager(store, recorder, nil)
	ctx := context.Background()

	prefs := preferences.Preferences{Theme: "dark", Notifications: "enabled", Language: "English"}
	require.NoError(t, mgr.Authenticate(ctx, "sess-1", "user-1", prefs))
	require.NoError(t, mgr.Start(ctx, "sess-1"))

	s, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "user-1", s.UserID)
	require.NotNil(t, s.Preferences)
	assert.Equal(t, prefs, *s.Preferences)
}

func TestLogPage_PreservesCallOrder(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	pages := []string{"/home", "/products", "/products/42", "/cart"}
	for _, page := range pages {
		require.NoError(t, mgr.LogPage(ctx, "sess-1", page))
	}

	summary, err := mgr.Summary(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, pages, summary.PagesVisited, "pages must appear in call order")
}

func TestLogPage_EmptyPage(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	err := mgr.LogPage(ctx, "sess-1", "")
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestLogPage_NoActiveSession(t *testing.T) {
	mgr, _ := newTestManager()

	err := mgr.LogPage(context.Background(), "never-started", "/home")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLogPage_PublishesEvent(t *testing.T) {
	publisher := &fakePublisher{}
	mgr := NewManager(NewMemoryStore(time.Hour), newFakeRecorder(), publisher)
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))
	require.NoError(t, mgr.LogPage(ctx, "sess-1", "/home"))

	assert.Equal(t, []string{"/home"}, publisher.published)
}

func TestLogPage_PublishFailureNotSurfaced(t *testing.T) {
	publisher := &fakePublisher{failWith: fmt.Errorf("channel down")}
	mgr := NewManager(NewMemoryStore(time.Hour), newFakeRecorder(), publisher)
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	// delivery is at most once; the caller never observes a lost event
	assert.NoError(t, mgr.LogPage(ctx, "sess-1", "/home"))

	summary, err := mgr.Summary(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/home"}, summary.PagesVisited, "live session still has the page")
}

func TestLogAction_AppendsWithTimestamp(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	before := time.Now()
	require.NoError(t, mgr.LogAction(ctx, "sess-1", "add_to_cart"))

	summary, err := mgr.Summary(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, summary.ActivityLog, 1)
	assert.Equal(t, "add_to_cart", summary.ActivityLog[0].Action)
	assert.False(t, summary.ActivityLog[0].Timestamp.Before(before))
}

func TestLogAction_EmptyAction(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	err := mgr.LogAction(ctx, "sess-1", "")
	assert.ErrorIs(t, err, ErrEmptyAction)
}

func TestSummary_NoActiveSession(t *testing.T) {
	mgr, _ := newTestManager()

	_, err := mgr.Summary(context.Background(), "never-started")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPaginatedLogs_MiddlePage(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	for i := 0; i < 25; i++ {
		require.NoError(t, mgr.LogAction(ctx, "sess-1", fmt.Sprintf("action-%d", i)))
	}

	logs, totalPages, err := mgr.PaginatedLogs(ctx, "sess-1", 3, 10)
	require.NoError(t, err)

	// entries [20, 25): 5 items
	require.Len(t, logs, 5)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, "action-20", logs[0].Action)
	assert.Equal(t, "action-24", logs[4].Action)
}

func TestPaginatedLogs_BeyondEnd(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	for i := 0; i < 25; i++ {
		require.NoError(t, mgr.LogAction(ctx, "sess-1", fmt.Sprintf("action-%d", i)))
	}

	logs, totalPages, err := mgr.PaginatedLogs(ctx, "sess-1", 9, 10)
	require.NoError(t, err, "out-of-range page is not an error")
	assert.Empty(t, logs)
	assert.Equal(t, 3, totalPages, "totalPages stays correct")
}

func TestPaginatedLogs_Defaults(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	for i := 0; i < 15; i++ {
		require.NoError(t, mgr.LogAction(ctx, "sess-1", fmt.Sprintf("action-%d", i)))
	}

	// zero values fall back to page 1, limit 10
	logs, totalPages, err := mgr.PaginatedLogs(ctx, "sess-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 10)
	assert.Equal(t, 2, totalPages)
	assert.Equal(t, "action-0", logs[0].Action)
}

func TestEnd_AnonymousSessionFlushesNothing(t *testing.T) {
	mgr, recorder := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))
	require.NoError(t, mgr.LogPage(ctx, "sess-1", "/home"))

	require.NoError(t, mgr.End(ctx, "sess-1"))

	assert.Empty(t, recorder.appended, "anonymous sessions leave no durable trace")

	_, err := mgr.Summary(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound, "session is gone after end")
}

func TestEnd_AuthenticatedSessionAppendsSummary(t *testing.T) {
	mgr, recorder := newTestManager()
	ctx := context.Background()

	prefs := preferences.Defaults()
	require.NoError(t, mgr.Authenticate(ctx, "sess-1", "user-1", prefs))
	require.NoError(t, mgr.Start(ctx, "sess-1"))
	require.NoError(t, mgr.LogPage(ctx, "sess-1", "a"))
	require.NoError(t, mgr.LogPage(ctx, "sess-1", "b"))

	require.NoError(t, mgr.End(ctx, "sess-1"))

	require.Len(t, recorder.appended["user-1"], 1, "exactly one summary appended")
	summary := recorder.appended["user-1"][0]
	assert.Equal(t, []string{"a", "b"}, summary.PagesVisited)
	assert.GreaterOrEqual(t, summary.Duration, time.Duration(0))
	assert.False(t, summary.StartTime.IsZero())
}

func TestEnd_AppendFailureStillDestroysSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	recorder := newFakeRecorder()
	recorder.failWith = fmt.Errorf("mongo unavailable")
	mgr := NewManager(store, recorder, nil)
	ctx := context.Background()

	require.NoError(t, mgr.Authenticate(ctx, "sess-1", "user-1", preferences.Defaults()))
	require.NoError(t, mgr.Start(ctx, "sess-1"))

	err := mgr.End(ctx, "sess-1")
	require.Error(t, err, "append failure is surfaced")
	assert.Contains(t, err.Error(), "failed to persist session summary")

	// best-effort durability, guaranteed cleanup
	s, getErr := store.Get(ctx, "sess-1")
	require.NoError(t, getErr)
	assert.Nil(t, s, "ephemeral session is destroyed regardless")
}

func TestEnd_NoSession(t *testing.T) {
	mgr, _ := newTestManager()

	err := mgr.End(context.Background(), "never-started")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	mgr := NewManager(store, newFakeRecorder(), nil)
	ctx := context.Background()

	require.NoError(t, mgr.Start(ctx, "sess-1"))

	time.Sleep(20 * time.Millisecond)

	_, err := mgr.Summary(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound, "expired session behaves as gone")
}
