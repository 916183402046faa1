// internal/storage/sqlite_test.go
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopwise-client/internal/domain/notification"
	"coopwise-client/internal/store"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "notifications.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := newSQLite(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSQLiteSaveLoadRoundtrip(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	readAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	in := &store.Snapshot{
		Notifications: []notification.Notification{
			{
				ID:        "n1",
				Title:     "Payout Sent",
				Message:   "Your payout of N50,000 is on its way",
				EventType: notification.EventPayout,
				Severity:  notification.SeveritySuccess,
				Status:    notification.StatusRead,
				IsRead:    true,
				ReadAt:    &readAt,
				EntityURL: "/dashboard/payouts/p1",
				CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
			},
			{
				ID:        "n2",
				Title:     "New Member",
				EventType: notification.EventMembership,
				Severity:  notification.SeverityInfo,
				Status:    notification.StatusUnread,
				CreatedAt: time.Date(2026, 2, 10, 9, 5, 0, 0, time.UTC),
			},
		},
		UnreadCount: 1,
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out.Notifications, 2)

	// Order preserved.
	assert.Equal(t, "n1", out.Notifications[0].ID)
	assert.Equal(t, "n2", out.Notifications[1].ID)

	got := out.Notifications[0]
	assert.Equal(t, notification.EventPayout, got.EventType)
	assert.Equal(t, notification.StatusRead, got.Status)
	require.NotNil(t, got.ReadAt)
	assert.True(t, got.ReadAt.Equal(readAt))
	assert.Equal(t, "/dashboard/payouts/p1", got.EntityURL)

	assert.Nil(t, out.Notifications[1].ReadAt)
	assert.Equal(t, 1, out.UnreadCount)
}

func TestSQLiteSaveReplaces(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	first := &store.Snapshot{Notifications: []notification.Notification{
		{ID: "n1", CreatedAt: time.Now().UTC()},
		{ID: "n2", CreatedAt: time.Now().UTC()},
	}}
	require.NoError(t, s.Save(ctx, first))

	second := &store.Snapshot{Notifications: []notification.Notification{
		{ID: "n3", CreatedAt: time.Now().UTC()},
	}}
	require.NoError(t, s.Save(ctx, second))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "n3", out.Notifications[0].ID)
}
