// internal/handlers/notification/notification_handler.go
package notification

import (
	"errors"
	"net/http"
	"strconv"

	"coopwise-client/internal/api"
	"coopwise-client/internal/auth"
	domain "coopwise-client/internal/domain/notification"
	"coopwise-client/internal/pkg/response"
	service "coopwise-client/internal/service/notification"
	"coopwise-client/internal/store"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the synced store to the dashboard UI over the
// daemon's local HTTP API. Reads come straight from the store; writes go
// through the dispatcher so the backend confirms first.
type NotificationHandler struct {
	store   *store.Store
	service *service.Service
}

func NewNotificationHandler(s *store.Store, svc *service.Service) *NotificationHandler {
	return &NotificationHandler{
		store:   s,
		service: svc,
	}
}

// GetNotifications returns the locally synced list with pagination state.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	p := h.store.Pagination()

	response.Success(c, http.StatusOK, "notifications retrieved", gin.H{
		"notifications": h.store.All(),
		"unread_count":  h.store.UnreadCount(),
		"total":         p.Total,
		"page":          p.Page,
		"page_size":     p.PageSize,
		"has_more":      h.store.HasMore(),
		"error":         h.store.LastError(),
	})
}

// GetNotification returns a single record plus its derived UI action.
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	id := c.Param("id")

	n, ok := h.store.Get(id)
	if !ok {
		response.NotFound(c, "notification not found")
		return
	}

	response.Success(c, http.StatusOK, "notification retrieved", gin.H{
		"notification": n,
		"action":       n.Link(),
	})
}

// GetUnreadCount returns the derived unread count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{
		"unread_count": h.store.UnreadCount(),
	})
}

// Refresh re-fetches a page from the backend into the store. Defaults to a
// page-1 resync.
func (h *NotificationHandler) Refresh(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if err := h.service.FetchNotifications(c.Request.Context(), page, pageSize); err != nil {
		h.writeError(c, "failed to fetch notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications refreshed", gin.H{
		"notifications": h.store.All(),
		"unread_count":  h.store.UnreadCount(),
	})
}

// LoadMore appends the next history page when one exists.
func (h *NotificationHandler) LoadMore(c *gin.Context) {
	if err := h.service.LoadNextPage(c.Request.Context()); err != nil {
		h.writeError(c, "failed to load more notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications loaded", gin.H{
		"notifications": h.store.All(),
		"has_more":      h.store.HasMore(),
	})
}

// MarkAsRead marks a notification as read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.MarkAsRead(c.Request.Context(), id); err != nil {
		h.writeError(c, "failed to mark as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", gin.H{
		"unread_count": h.store.UnreadCount(),
	})
}

// MarkAllAsRead marks all notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(c.Request.Context()); err != nil {
		h.writeError(c, "failed to mark all as read", err)
		return
	}

	response.Success(c, http.StatusOK, "all notifications marked as read", gin.H{
		"unread_count": 0,
	})
}

// Archive moves a notification to archived.
func (h *NotificationHandler) Archive(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Archive(c.Request.Context(), id); err != nil {
		h.writeError(c, "failed to archive notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification archived", nil)
}

// DeleteNotification deletes a notification.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "failed to delete notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}

// ClearAll drops the local cache. No backend call; logout path.
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	h.service.ClearAll()
	response.Success(c, http.StatusOK, "notifications cleared", nil)
}

// writeError maps dispatcher errors onto the local API: backend rejections
// keep their status, a missing token is 401, anything else is 502 since the
// daemon itself did not fail.
func (h *NotificationHandler) writeError(c *gin.Context, message string, err error) {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		response.Error(c, apiErr.Status, message, err)
	case errors.Is(err, auth.ErrNoToken):
		response.Error(c, http.StatusUnauthorized, message, err)
	case errors.Is(err, domain.ErrMissingID):
		response.Error(c, http.StatusBadRequest, message, err)
	default:
		response.Error(c, http.StatusBadGateway, message, err)
	}
}
