package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ChatRoutes(r *gin.Engine) {
	chat := r.Group("/chat")
	chat.Use(middleware.RequireAuth())
	{
		chat.POST("/messages", controllers.SendMessage)
		chat.GET("/conversations", controllers.ListConversations)
		chat.GET("/conversations/:id/messages", controllers.ListMessages)
	}
}
