package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AnnouncementRoutes(r *gin.Engine) {
	announcements := r.Group("/announcements")
	announcements.Use(middleware.RequireAuth())
	{
		announcements.GET("/", controllers.ListAnnouncements)
	}
}
