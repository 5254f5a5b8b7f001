package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DirectoryRoutes(r *gin.Engine) {
	directory := r.Group("/directory")
	directory.Use(middleware.RequireAuth())
	{
		directory.GET("/riders", controllers.ListRiders)
		directory.GET("/stores", controllers.ListStores)
		directory.GET("/providers", controllers.ListServiceProviders)
	}
}
