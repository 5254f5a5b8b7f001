package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"
	"estate_hub/internal/models"

	"github.com/gin-gonic/gin"
)

// DeliveryRoutes covers the requester side of the job lifecycle. Residents,
// stores and service providers can all request deliveries.
func DeliveryRoutes(r *gin.Engine) {
	deliveries := r.Group("/deliveries")
	deliveries.Use(middleware.RequireAuthWithRole(models.RoleResident, models.RoleStore, models.RoleServiceProvider))
	{
		deliveries.POST("/", controllers.CreateDeliveryRequest)
		deliveries.GET("/mine", controllers.ListMyDeliveries)
		deliveries.PATCH("/:id/cancel", controllers.CancelDelivery)
	}
}
