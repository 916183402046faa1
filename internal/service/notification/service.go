// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coopwise-client/internal/api"
	domain "coopwise-client/internal/domain/notification"
	"coopwise-client/internal/store"
)

// Service is the command dispatcher and pagination controller over the local
// store. Every write round-trips through the backend before the store is
// touched: there is no optimistic update, so a rejected call leaves visible
// state exactly as it was.
type Service struct {
	store  *store.Store
	client *api.Client
	logger *zap.Logger
}

func NewService(s *store.Store, client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, client: client, logger: logger}
}

// FetchNotifications loads one history page into the store. Page 1 replaces
// the list wholesale: the server snapshot is authoritative there, even when
// it lags a just-pushed record (known limitation, the next push or refetch
// reconverges). Later pages append without duplicating existing ids.
func (s *Service) FetchNotifications(ctx context.Context, page, pageSize int) error {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	resp, err := s.client.FetchNotifications(ctx, page, pageSize)
	if err != nil {
		s.store.SetLastError(err.Error())
		return fmt.Errorf("failed to fetch notifications: %w", err)
	}

	if page == 1 {
		s.store.SetNotifications(resp.Notifications)
	} else {
		s.store.Append(resp.Notifications)
	}
	s.store.SetPagination(domain.Pagination{
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	})
	s.store.ClearError()
	return nil
}

// LoadNextPage fetches the following page when the backend still holds
// records the store has not seen. Explicit "load more" only, never automatic.
func (s *Service) LoadNextPage(ctx context.Context) error {
	if !s.store.HasMore() {
		return nil
	}
	p := s.store.Pagination()
	return s.FetchNotifications(ctx, p.Page+1, p.PageSize)
}

// MarkAsRead confirms the transition with the backend, then applies
// unread -> read locally. ReadAt is set once and never overwritten.
func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	if err := s.client.MarkAsRead(ctx, id); err != nil {
		s.store.SetLastError(err.Error())
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	now := time.Now().UTC()
	status := domain.StatusRead
	read := true
	s.store.Update(id, domain.Update{Status: &status, IsRead: &read, ReadAt: &now})
	s.store.ClearError()
	return nil
}

// MarkAllAsRead is one bulk backend call followed by one local pass.
func (s *Service) MarkAllAsRead(ctx context.Context) error {
	if err := s.client.MarkAllAsRead(ctx); err != nil {
		s.store.SetLastError(err.Error())
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	now := time.Now().UTC()
	status := domain.StatusRead
	read := true
	s.store.UpdateAll(domain.Update{Status: &status, IsRead: &read, ReadAt: &now})
	s.store.ClearError()
	return nil
}

// Archive confirms with the backend, then moves the record to archived.
func (s *Service) Archive(ctx context.Context, id string) error {
	if err := s.client.Archive(ctx, id); err != nil {
		s.store.SetLastError(err.Error())
		return fmt.Errorf("failed to archive notification: %w", err)
	}

	status := domain.StatusArchived
	s.store.Update(id, domain.Update{Status: &status})
	s.store.ClearError()
	return nil
}

// Delete confirms with the backend, then removes the record from the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.store.SetLastError(err.Error())
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	s.store.Remove(id)
	s.store.ClearError()
	return nil
}

// ClearAll resets the local cache. No backend call; session teardown only.
func (s *Service) ClearAll() {
	s.store.ClearAll()
}

// HandlePush is the connector's OnMessage callback: dedup-insert the record
// and announce it at its severity, the headless analogue of a toast.
func (s *Service) HandlePush(n domain.Notification) {
	if !s.store.Add(n) {
		return
	}

	fields := []zap.Field{
		zap.String("id", n.ID),
		zap.String("event_type", string(n.EventType)),
		zap.String("message", n.Message),
	}
	switch n.Severity {
	case domain.SeverityDanger:
		s.logger.Error(pushTitle(n), fields...)
	case domain.SeverityWarning:
		s.logger.Warn(pushTitle(n), fields...)
	default:
		s.logger.Info(pushTitle(n), fields...)
	}
}

func pushTitle(n domain.Notification) string {
	if n.Title != "" {
		return n.Title
	}
	return "New Notification"
}
