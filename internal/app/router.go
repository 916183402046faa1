// internal/app/router.go
package app

import (
	notifyHandler "coopwise-client/internal/handlers/notification"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	NotifHandler *notifyHandler.NotificationHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.GET("/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.POST("/refresh", h.NotifHandler.Refresh)
		notifications.POST("/load-more", h.NotifHandler.LoadMore)
		notifications.PATCH("/mark-all-as-read", h.NotifHandler.MarkAllAsRead)
		notifications.GET("/:id", h.NotifHandler.GetNotification)
		notifications.PATCH("/:id", h.NotifHandler.MarkAsRead)
		notifications.PATCH("/:id/archive", h.NotifHandler.Archive)
		notifications.DELETE("/:id", h.NotifHandler.DeleteNotification)
		notifications.DELETE("", h.NotifHandler.ClearAll)
	}
}
