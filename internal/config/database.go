package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"estate_hub/internal/geo"
	"estate_hub/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB

	// EstateFence is the estate perimeter used to classify where an account
	// operates. Loaded from ESTATE_FENCE (GeoJSON Polygon) or the default.
	EstateFence *geo.Fence
)

// InitDB initializes the database connection using environment variables
// and migrates the EstateHub schema.
func InitDB() {
	// Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "estatehub")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Resident{},
		&models.Rider{},
		&models.Store{},
		&models.ServiceProvider{},
		&models.DeliveryRequest{},
		&models.GatePass{},
		&models.Announcement{},
		&models.Conversation{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	DB = db

	fence, err := geo.ParseFence(getEnv("ESTATE_FENCE", geo.DefaultFenceGeoJSON))
	if err != nil {
		log.Fatalf("invalid ESTATE_FENCE: %v", err)
	}
	EstateFence = fence
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
