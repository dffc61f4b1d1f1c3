package notifications

import "github.com/gin-gonic/gin"

func RegisterNotificationsRoutes(r *gin.RouterGroup) {
	r.GET("/notifications", GetNotifications)
	r.GET("/notifications/unread-count", GetUnreadCount)
	r.GET("/notifications/stream", Stream)
	r.POST("/notifications/:id/read", MarkRead)
	r.POST("/notifications/read-all", MarkAllRead)
}
