package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ppclens/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router.
// metrics may be nil, in which case /metrics is not served.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, metrics http.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxBytes

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	var limiter *IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiter))
	{
		reports := v1.Group("/reports")
		{
			reports.POST("", handler.UploadReport)
			reports.GET("/:id", handler.GetReport)
			reports.GET("/:id/tables/:name", handler.GetTable)
			reports.GET("/:id/workbook", handler.GetWorkbook)
			reports.GET("/:id/patterns", handler.GetPatterns)
		}
	}

	return router
}
