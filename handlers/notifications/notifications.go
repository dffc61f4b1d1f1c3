package notifications

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

// GetNotifications returns the caller's newest 50 notifications. Pass
// ?admin_log=true to read the audit-log feed instead of personal alerts.
func GetNotifications(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	isAdminLog := c.Query("admin_log") == "true"
	if isAdminLog && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var notifications []models.Notification
	if err := utils.DB.Where("user_id = ? AND is_admin_log = ?", user.ID, isAdminLog).
		Order("created_at DESC").Limit(50).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func GetUnreadCount(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var count int64
	if err := utils.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead marks one of the caller's notifications read. Idempotent.
func MarkRead(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var notification models.Notification
	if err := utils.DB.Where("user_id = ?", user.ID).
		First(&notification, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if err := utils.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks every unread notification of the caller read.
// Idempotent: a second call succeeds with nothing to update.
func MarkAllRead(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if err := utils.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// Stream delivers the caller's notifications as server-sent events fed by
// the redis channel their inserts are published to. Best-effort: events
// missed while disconnected are not replayed.
func Stream(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if utils.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notification streaming is not available"})
		return
	}

	pubsub := utils.Redis.Subscribe(c.Request.Context(), utils.NotificationChannel(user.ID))
	defer pubsub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ch := pubsub.Channel()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("notification", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
