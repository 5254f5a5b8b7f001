package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"
	"estate_hub/internal/models"

	"github.com/gin-gonic/gin"
)

func GatePassRoutes(r *gin.Engine) {
	gatepasses := r.Group("/gatepasses")
	gatepasses.Use(middleware.RequireAuthWithRole(models.RoleResident))
	{
		gatepasses.POST("/", controllers.CreateGatePass)
		gatepasses.GET("/mine", controllers.ListMyGatePasses)
	}
}
