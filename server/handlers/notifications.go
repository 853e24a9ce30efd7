package handlers

import (
	"net/http"

	"github.com/blogsphere/blogsphere/model"
	"github.com/blogsphere/blogsphere/server/middlewares"
	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first,
// with the unread count alongside so clients can badge without a second
// request.
func (h *Handler) ListNotifications(c *gin.Context) {
	caller := middlewares.CurrentUser(c)

	var notifications []model.Notification
	err := h.DB.Preload("Sender").Preload("Blog").
		Where("recipient_id = ?", caller.Id).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list notifications"})
		return
	}

	var unread int64
	h.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", caller.Id, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// ownNotification loads a notification and checks the caller is its
// recipient. Other users' notifications read as not-found.
func (h *Handler) ownNotification(c *gin.Context, id string) (*model.Notification, bool) {
	caller := middlewares.CurrentUser(c)

	var notification model.Notification
	res := h.DB.Where("id = ? AND recipient_id = ?", id, caller.Id).First(&notification)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return nil, false
	}
	return &notification, true
}

// MarkNotificationRead flips one notification to read. Idempotent.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	notification, ok := h.ownNotification(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.DB.Model(notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// MarkAllNotificationsRead flips every unread notification of the caller.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	caller := middlewares.CurrentUser(c)
	err := h.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", caller.Id, false).
		Update("is_read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(c *gin.Context) {
	notification, ok := h.ownNotification(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.DB.Where("id = ?", notification.Id).Delete(&model.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
