package main

import (
	"log"
	"net/http"
	"os"

	"estate_hub/internal/config"
	"estate_hub/internal/controllers"
	"estate_hub/internal/logger"
	"estate_hub/internal/middleware"
	"estate_hub/internal/routes"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and load the estate fence
	config.InitDB()
	config.SeedDemoData()

	// Wire the coordination workflow to the store and the change hub
	controllers.InitCoordinator()

	// Setup Gin router
	r := routes.SetupRouter()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + getPort()
	log.Printf("🚀 EstateHub server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
