package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"hospoda_backend/internal/database"
	"hospoda_backend/internal/middleware"
	"hospoda_backend/internal/router"
	"hospoda_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	utils.InitLogger()

	dbConfig := database.Config{
		Host:     utils.Getenv("DB_HOST", "localhost"),
		Port:     utils.Getenv("DB_PORT", "5432"),
		User:     utils.Getenv("DB_USER", "hospoda_user"),
		Password: utils.Getenv("DB_PASSWORD", "hospoda_password"),
		Name:     utils.Getenv("DB_NAME", "hospoda_db"),
		SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
	}

	db, err := database.Connect(dbConfig)
	if err != nil {
		utils.LogError(err, "Failed to connect to database")
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database connected", map[string]interface{}{"host": dbConfig.Host, "name": dbConfig.Name})

	migrationsPath := utils.Getenv("DB_MIGRATIONS_PATH", "internal/database/migrations")
	if err := database.RunMigrations(dbConfig, migrationsPath); err != nil {
		utils.LogError(err, "Failed to apply database migrations")
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	engine := gin.Default()
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
