package routes

import (
	"worknest-backend/handlers/notifications"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func NotificationsRoutes(r *gin.Engine) {
	grp := r.Group("/notifications")
	grp.Use(middleware.JWTAuth())
	{
		grp.GET("", notifications.GetNotifications)
		grp.GET("/count", notifications.UnreadCount)
		grp.POST("/read-all", notifications.MarkAllRead)
		grp.POST("/:notification_id/read", notifications.MarkRead)
	}
}
