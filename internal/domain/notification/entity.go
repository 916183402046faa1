// internal/domain/notification/entity.go
package notification

import (
	"errors"
	"time"
)

// EventType classifies what a notification is about. It drives the deep-link
// action derivation, nothing else.
type EventType string

const (
	EventGroup        EventType = "group"
	EventTransaction  EventType = "transaction"
	EventMembership   EventType = "membership"
	EventContribution EventType = "contribution"
	EventPayout       EventType = "payout"
	EventGeneralAlert EventType = "general_alert"
	EventSystem       EventType = "system"
	EventAIInsight    EventType = "ai_insight"
	EventOther        EventType = "other"
)

// Severity maps to the visual treatment a UI gives the notification.
// The backend serializes it under the legacy "type" key.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Status is the lifecycle state. Transitions only move forward:
// unread -> read -> archived, or any state -> deleted (removed).
type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

var statusRank = map[Status]int{
	StatusUnread:   0,
	StatusRead:     1,
	StatusArchived: 2,
	StatusDeleted:  3,
}

// AllowsTransition reports whether moving from one status to another keeps
// the lifecycle monotonic. Equal statuses are allowed (idempotent re-apply).
func AllowsTransition(from, to Status) bool {
	return statusRank[to] >= statusRank[from]
}

var ErrMissingID = errors.New("notification has no id")

// Notification is the canonical record delivered by the push channel or the
// paginated REST fetch. ID is assigned server-side and is the dedup key.
// Status and IsRead are one logical flag kept in sync for legacy clients.
type Notification struct {
	ID        string     `json:"id" db:"id"`
	Title     string     `json:"title,omitempty" db:"title"`
	Message   string     `json:"message,omitempty" db:"message"`
	EventType EventType  `json:"event_type" db:"event_type"`
	Severity  Severity   `json:"type" db:"severity"`
	Status    Status     `json:"status" db:"status"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	EntityURL string     `json:"entity_url,omitempty" db:"entity_url"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Validate checks the minimum a record needs to enter the store.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Update carries the fields a store merge may change. Nil means "leave as is".
type Update struct {
	Status *Status
	IsRead *bool
	ReadAt *time.Time
}

// DTOs

// ListResponse mirrors GET /api/v1/notifications/me.
type ListResponse struct {
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	Notifications []Notification `json:"notifications"`
}

// Pagination is the slice of ListResponse the client keeps between fetches.
type Pagination struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
