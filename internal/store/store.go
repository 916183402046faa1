// internal/store/store.go
package store

import (
	"context"
	"sync"

	"coopwise-client/internal/domain/notification"

	"go.uber.org/zap"
)

// Snapshot is the durable subset of the store. Transient state (loading,
// last error) is never persisted.
type Snapshot struct {
	Notifications []notification.Notification `json:"notifications"`
	UnreadCount   int                         `json:"unread_count"`
}

// Snapshotter is the persistence boundary the caller wires up. The store
// saves after every mutation and loads once at startup.
type Snapshotter interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Store is the single source of truth for the notification list and its
// derived unread count. Order is newest-first by insertion; push delivery
// order is trusted, no re-sort by timestamp.
type Store struct {
	mu         sync.RWMutex
	items      []notification.Notification
	unread     int
	pagination notification.Pagination
	lastErr    string

	listeners []func()
	snap      Snapshotter
	logger    *zap.Logger
}

func New(snap Snapshotter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		items:      []notification.Notification{},
		pagination: notification.Pagination{Page: 1, PageSize: 20},
		snap:       snap,
		logger:     logger,
	}
}

// Load restores the persisted snapshot, if any. Called once during wiring,
// before the socket or any fetch starts feeding the store.
func (s *Store) Load(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}
	snap, err := s.snap.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	s.items = append([]notification.Notification{}, snap.Notifications...)
	s.recountLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe registers a listener invoked after every state change. Listeners
// must not call back into the store synchronously.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetNotifications replaces the whole list, e.g. after a page-1 fetch.
func (s *Store) SetNotifications(list []notification.Notification) {
	s.mu.Lock()
	s.items = append([]notification.Notification{}, list...)
	s.recountLocked()
	s.mu.Unlock()

	s.persist()
	s.notify()
}

// Add inserts at the head unless the id is already present. First occurrence
// wins: the push channel and the REST pagination channel can both deliver
// the same record, and re-applying the later copy would flicker the UI.
func (s *Store) Add(n notification.Notification) bool {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == n.ID {
			s.mu.Unlock()
			return false
		}
	}
	s.items = append([]notification.Notification{n}, s.items...)
	s.recountLocked()
	s.mu.Unlock()

	s.persist()
	s.notify()
	return true
}

// Append adds records to the tail, skipping ids already present. Used for
// pages beyond the first.
func (s *Store) Append(list []notification.Notification) {
	s.mu.Lock()
	seen := make(map[string]struct{}, len(s.items))
	for i := range s.items {
		seen[s.items[i].ID] = struct{}{}
	}
	for _, n := range list {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		s.items = append(s.items, n)
	}
	s.recountLocked()
	s.mu.Unlock()

	s.persist()
	s.notify()
}

// Update merges the given fields into the matching record. No-op when the id
// is not present.
func (s *Store) Update(id string, upd notification.Update) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		applyUpdate(&s.items[i], upd)
		found = true
		break
	}
	if found {
		s.recountLocked()
	}
	s.mu.Unlock()

	if found {
		s.persist()
		s.notify()
	}
	return found
}

// UpdateAll applies the merge to every record. Used by mark-all-as-read so a
// single bulk REST confirmation turns into one local pass.
func (s *Store) UpdateAll(upd notification.Update) {
	s.mu.Lock()
	for i := range s.items {
		applyUpdate(&s.items[i], upd)
	}
	s.recountLocked()
	s.mu.Unlock()

	s.persist()
	s.notify()
}

// Remove deletes the matching record.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	if found {
		s.recountLocked()
	}
	s.mu.Unlock()

	if found {
		s.persist()
		s.notify()
	}
	return found
}

// ClearAll resets the store. Purely local, no backend call; used on logout
// or session teardown.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.items = []notification.Notification{}
	s.unread = 0
	s.pagination = notification.Pagination{Page: 1, PageSize: s.pagination.PageSize}
	s.mu.Unlock()

	s.persist()
	s.notify()
}

// applyUpdate merges fields while keeping the lifecycle monotonic: status
// never moves backward, the read flag never clears, ReadAt is set once.
func applyUpdate(n *notification.Notification, upd notification.Update) {
	if upd.Status != nil && notification.AllowsTransition(n.Status, *upd.Status) {
		n.Status = *upd.Status
	}
	if upd.IsRead != nil && *upd.IsRead {
		n.IsRead = true
	}
	if upd.ReadAt != nil && n.ReadAt == nil {
		n.ReadAt = upd.ReadAt
	}
}

// recountLocked rederives the unread count. The count is never assigned
// anywhere else; callers hold the write lock.
func (s *Store) recountLocked() {
	unread := 0
	for i := range s.items {
		if !s.items[i].IsRead {
			unread++
		}
	}
	s.unread = unread
}

func (s *Store) persist() {
	if s.snap == nil {
		return
	}
	s.mu.RLock()
	snap := &Snapshot{
		Notifications: append([]notification.Notification{}, s.items...),
		UnreadCount:   s.unread,
	}
	s.mu.RUnlock()

	if err := s.snap.Save(context.Background(), snap); err != nil {
		s.logger.Warn("failed to persist notification snapshot", zap.Error(err))
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
