package routes

import (
	"worknest-backend/handlers/chat"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ChatRoutes(r *gin.Engine) {
	grp := r.Group("/chat")
	grp.Use(middleware.JWTAuth())
	{
		grp.GET("", chat.GetChats)
		grp.GET("/:other_id/messages", chat.GetMessages)
		grp.POST("/:other_id/messages", chat.SendMessage)
		grp.POST("/:other_id/read", chat.MarkRead)
	}
}
