package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"
	"estate_hub/internal/models"

	"github.com/gin-gonic/gin"
)

func RiderRoutes(r *gin.Engine) {
	rider := r.Group("/rider")
	rider.Use(middleware.RequireAuthWithRole(models.RoleDispatchRider))
	{
		rider.GET("/jobs", controllers.ListAvailableJobs)
		rider.GET("/jobs/mine", controllers.ListMyJobs)
		rider.POST("/jobs/:id/accept", controllers.AcceptJob)
		rider.PATCH("/jobs/:id/status", controllers.UpdateJobStatus)
		rider.PATCH("/availability", controllers.SetRiderAvailability)
	}
}
