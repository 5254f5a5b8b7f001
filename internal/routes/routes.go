package routes

import (
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	AuthRoutes(r)
	DeliveryRoutes(r)
	GatePassRoutes(r)
	RiderRoutes(r)
	DirectoryRoutes(r)
	AnnouncementRoutes(r)
	ChatRoutes(r)
	AdminRoutes(r)
	WebSocketRoutes(r)

	return r
}
