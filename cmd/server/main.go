package main

import (
	"log"
	"net/http"
	"os"

	"github.com/adcapture/shoot-scheduler-go/pkg/auth"
	"github.com/adcapture/shoot-scheduler-go/pkg/config"
	"github.com/adcapture/shoot-scheduler-go/pkg/database"
	"github.com/adcapture/shoot-scheduler-go/pkg/handlers"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("bad schedule config: %v", err)
	}

	areaMapPath := os.Getenv("AREA_MAP_PATH")
	if areaMapPath == "" {
		areaMapPath = "areas.yaml"
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Config: cfg, AreaMapPath: areaMapPath}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shoot Scheduler API",
			"version": "1.3.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Scheduler Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/run", h.RunSchedule)
		api.GET("/schedule/runs", h.ListRuns)
		api.POST("/validate", h.ValidateStore)
		api.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
