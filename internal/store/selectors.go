// internal/store/selectors.go
package store

import "coopwise-client/internal/domain/notification"

// All returns a copy of the list, newest first.
func (s *Store) All() []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]notification.Notification{}, s.items...)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (notification.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return notification.Notification{}, false
}

// UnreadCount returns the derived unread count.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Unread returns the records not yet read.
func (s *Store) Unread() []notification.Notification {
	return s.filter(func(n *notification.Notification) bool { return !n.IsRead })
}

// Archived returns the archived records.
func (s *Store) Archived() []notification.Notification {
	return s.filter(func(n *notification.Notification) bool { return n.Status == notification.StatusArchived })
}

// ByEventType returns the records for one event type.
func (s *Store) ByEventType(et notification.EventType) []notification.Notification {
	return s.filter(func(n *notification.Notification) bool { return n.EventType == et })
}

// BySeverity returns the records at one severity.
func (s *Store) BySeverity(sev notification.Severity) []notification.Notification {
	return s.filter(func(n *notification.Notification) bool { return n.Severity == sev })
}

func (s *Store) filter(keep func(*notification.Notification) bool) []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []notification.Notification{}
	for i := range s.items {
		if keep(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

// SetPagination records the page window returned by the backend.
func (s *Store) SetPagination(p notification.Pagination) {
	s.mu.Lock()
	s.pagination = p
	s.mu.Unlock()
	s.notify()
}

// Pagination returns the last recorded page window.
func (s *Store) Pagination() notification.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// HasMore reports whether the backend holds pages not yet loaded.
func (s *Store) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) < s.pagination.Total
}

// SetLastError records the most recent failure for UI binding. Not persisted.
func (s *Store) SetLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	s.notify()
}

// LastError returns the recorded failure message, empty when none.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError resets the recorded failure.
func (s *Store) ClearError() {
	s.SetLastError("")
}
