package routes

import (
	"estate_hub/internal/controllers"
	"estate_hub/internal/middleware"
	"estate_hub/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.GET("/overview", controllers.AdminOverview)
		admin.GET("/users", controllers.ListUsers)
		admin.PATCH("/users/:id/approval", controllers.SetUserApproval)
		admin.GET("/deliveries", controllers.ListAllDeliveries)
		admin.GET("/gatepasses/pending", controllers.ListPendingGatePasses)
		admin.PATCH("/gatepasses/:id/resolve", controllers.ResolveGatePass)
		admin.POST("/announcements", controllers.CreateAnnouncement)
	}
}
