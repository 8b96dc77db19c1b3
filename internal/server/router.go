package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kidwell/api-backend/internal/config"
	"github.com/kidwell/api-backend/internal/handlers"
	"github.com/kidwell/api-backend/internal/middleware"
)

// Dependencies are the handlers and settings the router is built from
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Advice  *handlers.AdviceHandler
	Records *handlers.RecordHandler
	// Cleanup is nil when retention is disabled
	Cleanup *handlers.CleanupHandler
	Ready   handlers.Pinger
}

// NewRouter wires middleware and routes
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		cors.New(cors.Config{
			AllowOrigins:  cfg.Server.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	// Health and docs stay public
	router.GET("/ping", handlers.PingHandler)
	router.GET("/readyz", handlers.ReadyHandler(deps.Ready))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(
		middleware.LimitBodySize(cfg.Server.MaxBodyBytes),
		middleware.ParentAuthMiddleware(cfg.Auth.JWTSecret),
	)
	{
		api.POST("/health/advice", deps.Advice.RequestAdvice)

		records := api.Group("/records")
		{
			records.POST("", deps.Records.CreateRecord)
			records.GET("", deps.Records.ListRecords)
			records.GET("/:id", deps.Records.GetRecord)
			records.DELETE("/:id", deps.Records.DeleteRecord)
			records.POST("/:id/advice", deps.Records.AdviseRecord)
		}

		if deps.Cleanup != nil {
			api.POST("/maintenance/cleanup", deps.Cleanup.RunCleanup)
		}
	}

	return router
}
