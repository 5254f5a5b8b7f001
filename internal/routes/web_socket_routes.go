package routes

import (
	"estate_hub/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/events", controllers.HandleEventsWebSocket)
	}
}
