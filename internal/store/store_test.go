// internal/store/store_test.go
package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopwise-client/internal/domain/notification"
)

func newNotification(id string, read bool) notification.Notification {
	status := notification.StatusUnread
	if read {
		status = notification.StatusRead
	}
	return notification.Notification{
		ID:        id,
		Title:     "t-" + id,
		Message:   "m-" + id,
		EventType: notification.EventGroup,
		Severity:  notification.SeverityInfo,
		Status:    status,
		IsRead:    read,
		CreatedAt: time.Now(),
	}
}

// checkUnreadInvariant asserts the derived count always matches a fresh
// filter over the list.
func checkUnreadInvariant(t *testing.T, s *Store) {
	t.Helper()
	unread := 0
	for _, n := range s.All() {
		if !n.IsRead {
			unread++
		}
	}
	assert.Equal(t, unread, s.UnreadCount())
}

func TestAddDedup(t *testing.T) {
	s := New(nil, nil)

	first := newNotification("n1", false)
	first.Title = "first"
	dup := newNotification("n1", false)
	dup.Title = "second"

	assert.True(t, s.Add(first))
	assert.False(t, s.Add(dup))
	assert.False(t, s.Add(dup))

	require.Equal(t, 1, s.Len())
	got, ok := s.Get("n1")
	require.True(t, ok)
	// First occurrence wins; the later copy is never applied.
	assert.Equal(t, "first", got.Title)
	checkUnreadInvariant(t, s)
}

func TestAddInsertsAtHead(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))
	s.Add(newNotification("n2", false))
	s.Add(newNotification("n3", false))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "n3", all[0].ID)
	assert.Equal(t, "n1", all[2].ID)
}

func TestUnreadCountInvariant(t *testing.T) {
	s := New(nil, nil)

	// A mixed sequence of every mutation; the invariant must hold after
	// each one.
	ops := []func(){
		func() { s.Add(newNotification("a", false)) },
		func() { s.Add(newNotification("b", true)) },
		func() { s.Add(newNotification("c", false)) },
		func() {
			read := true
			status := notification.StatusRead
			s.Update("a", notification.Update{Status: &status, IsRead: &read})
		},
		func() { s.Remove("b") },
		func() { s.Append([]notification.Notification{newNotification("d", false), newNotification("c", true)}) },
		func() {
			s.SetNotifications([]notification.Notification{newNotification("x", false), newNotification("y", true)})
		},
		func() {
			read := true
			status := notification.StatusRead
			now := time.Now()
			s.UpdateAll(notification.Update{Status: &status, IsRead: &read, ReadAt: &now})
		},
		func() { s.ClearAll() },
	}

	for i, op := range ops {
		op()
		t.Run(fmt.Sprintf("op%d", i), func(t *testing.T) {
			checkUnreadInvariant(t, s)
		})
	}
}

func TestUpdateNoOpWhenAbsent(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))

	read := true
	assert.False(t, s.Update("missing", notification.Update{IsRead: &read}))
	assert.Equal(t, 1, s.UnreadCount())
}

func TestUpdateMonotonicStatus(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))

	archived := notification.StatusArchived
	require.True(t, s.Update("n1", notification.Update{Status: &archived}))

	// Archived records never move back to read or unread.
	read := notification.StatusRead
	s.Update("n1", notification.Update{Status: &read})
	got, _ := s.Get("n1")
	assert.Equal(t, notification.StatusArchived, got.Status)

	unread := notification.StatusUnread
	s.Update("n1", notification.Update{Status: &unread})
	got, _ = s.Get("n1")
	assert.Equal(t, notification.StatusArchived, got.Status)
}

func TestReadAtSetOnce(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := first.Add(time.Hour)
	read := true
	status := notification.StatusRead

	s.Update("n1", notification.Update{Status: &status, IsRead: &read, ReadAt: &first})
	s.Update("n1", notification.Update{Status: &status, IsRead: &read, ReadAt: &later})

	got, _ := s.Get("n1")
	require.NotNil(t, got.ReadAt)
	assert.Equal(t, first, *got.ReadAt)
}

func TestAppendSkipsExistingIDs(t *testing.T) {
	s := New(nil, nil)
	s.SetNotifications([]notification.Notification{newNotification("n1", false), newNotification("n2", true)})

	s.Append([]notification.Notification{newNotification("n2", false), newNotification("n3", false)})

	require.Equal(t, 3, s.Len())
	all := s.All()
	assert.Equal(t, "n3", all[2].ID)
	// The existing n2 was not replaced.
	got, _ := s.Get("n2")
	assert.True(t, got.IsRead)
	checkUnreadInvariant(t, s)
}

func TestClearAll(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))
	s.Add(newNotification("n2", false))

	s.ClearAll()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestSelectors(t *testing.T) {
	s := New(nil, nil)
	s.Add(newNotification("n1", false))
	s.Add(newNotification("n2", true))

	archived := newNotification("n3", true)
	archived.Status = notification.StatusArchived
	archived.EventType = notification.EventPayout
	s.Add(archived)

	assert.Len(t, s.Unread(), 1)
	assert.Len(t, s.Archived(), 1)
	assert.Len(t, s.ByEventType(notification.EventPayout), 1)
	assert.Len(t, s.ByEventType(notification.EventGroup), 2)
	assert.Len(t, s.BySeverity(notification.SeverityInfo), 3)
}

func TestSubscribeFiresOnMutation(t *testing.T) {
	s := New(nil, nil)

	var mu sync.Mutex
	fired := 0
	s.Subscribe(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	s.Add(newNotification("n1", false))
	s.Remove("n1")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, fired)
}

type memorySnapshotter struct {
	mu    sync.Mutex
	saved *Snapshot
	fail  error
}

func (m *memorySnapshotter) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, m.fail
}

func (m *memorySnapshotter) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.saved = snap
	return nil
}

func TestPersistence(t *testing.T) {
	t.Run("SavesAfterMutation", func(t *testing.T) {
		snap := &memorySnapshotter{}
		s := New(snap, nil)
		s.Add(newNotification("n1", false))

		snap.mu.Lock()
		defer snap.mu.Unlock()
		require.NotNil(t, snap.saved)
		assert.Len(t, snap.saved.Notifications, 1)
		assert.Equal(t, 1, snap.saved.UnreadCount)
	})

	t.Run("LoadRestores", func(t *testing.T) {
		snap := &memorySnapshotter{saved: &Snapshot{
			Notifications: []notification.Notification{newNotification("n1", false), newNotification("n2", true)},
			UnreadCount:   1,
		}}
		s := New(snap, nil)
		require.NoError(t, s.Load(context.Background()))

		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 1, s.UnreadCount())
	})

	t.Run("LoadEmptyIsNoOp", func(t *testing.T) {
		s := New(&memorySnapshotter{}, nil)
		require.NoError(t, s.Load(context.Background()))
		assert.Equal(t, 0, s.Len())
	})
}
