package main

import (
	"log"

	"marketing-analytics-api/config"
	"marketing-analytics-api/middleware"
	"marketing-analytics-api/models"
	"marketing-analytics-api/monitor"
	"marketing-analytics-api/routes"
	"marketing-analytics-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Set Gin mode
	if cfg.GinMode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	metrics := monitor.NewMetrics()
	mailer := config.NewMailer(cfg)

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(middleware.SecurityHeaders())

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware(cfg))

	// Operational status page
	monitor.RegisterMonitorPage(router, db)

	// Setup routes
	routes.SetupRoutes(router, routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     logger,
		Mailer:  mailer,
		Metrics: metrics,
	})

	// Create upload directory if not exists
	if err := utils.EnsureDir(cfg.UploadPath); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	logger.Info("🚀 Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
