package routes

import (
	"marketing-analytics-api/config"
	"marketing-analytics-api/controllers"
	"marketing-analytics-api/middleware"
	"marketing-analytics-api/monitor"
	"marketing-analytics-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything route handlers need. Wired once in main and
// passed down explicitly; no package-level state.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Mailer  *config.Mailer
	Metrics *monitor.Metrics
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	ingest := services.NewIngestService(deps.DB, deps.Log, deps.Metrics)

	auth := controllers.NewAuthController(deps.DB, deps.Config, deps.Log)
	passwordReset := controllers.NewPasswordResetController(deps.DB, deps.Mailer, deps.Config, deps.Log)
	health := controllers.NewHealthController(deps.DB)
	dashboard := controllers.NewDashboardController(deps.DB, deps.Log)
	reports := controllers.NewReportsController(deps.DB, deps.Log)
	products := controllers.NewProductsController(deps.DB, deps.Log)
	upload := controllers.NewUploadController(deps.Config, deps.Log, ingest)

	// Root-level operational endpoints, outside the API version group
	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/auth/register", auth.Register)
			public.POST("/auth/login", auth.Login)
			public.POST("/auth/forgot-password", passwordReset.ForgotPassword)
			public.POST("/auth/reset-password", passwordReset.ResetPassword)

			// Health check
			public.GET("/health", health.Health)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.DB, deps.Config))
		{
			// User profile
			protected.GET("/auth/profile", auth.GetProfile)
			protected.PUT("/auth/change-password", auth.ChangePassword)

			// Dashboard
			protected.GET("/dashboard", dashboard.GetDashboard)

			// Upload history
			protected.GET("/reports", reports.GetReports)
			protected.DELETE("/reports/:id", reports.DeleteReport)

			// Product settings
			productGroup := protected.Group("/products")
			{
				productGroup.GET("", products.GetProducts)
				productGroup.POST("", products.CreateProduct)
				productGroup.PUT("/:id", products.UpdateProduct)
				productGroup.DELETE("/:id", products.DeleteProduct)
			}

			// CSV ingestion
			protected.POST("/upload", upload.UploadCSV)
		}
	}
}
