package handler

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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("bad schedule config: %v", err)
	}

	areaMapPath := os.Getenv("AREA_MAP_PATH")
	if areaMapPath == "" {
		areaMapPath = "areas.yaml"
	}

	// Initialize DB
	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Config: cfg, AreaMapPath: areaMapPath}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shoot Scheduler API (serverless)",
			"version": "1.3.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/run", h.RunSchedule)
		api.GET("/schedule/runs", h.ListRuns)
		api.POST("/validate", h.ValidateStore)
		api.GET("/usage", h.GetMyUsage)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
