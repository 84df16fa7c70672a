package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quantlog/quantlog/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates a Gin engine with all journal routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, RateLimiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints (/healthz, /readyz) are registered in
// app.InitializeApp().
func NewRouter(handler *Handler, marketHandler *MarketHandler, extractHandler *ExtractHandler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	// Per-request timeout
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/trades", handler.CreateTrade)
		v1.GET("/trades", handler.ListTrades)
		v1.DELETE("/trades/:id", handler.DeleteTrade)

		v1.GET("/statistics", handler.GetStatistics)

		v1.POST("/sessions", handler.CreateSession)
		v1.GET("/sessions", handler.ListSessions)
		v1.POST("/sessions/:id/close", handler.CloseSession)

		v1.GET("/market/snapshot", marketHandler.GetSnapshot)
		v1.POST("/extract", extractHandler.ExtractTrade)
	}

	return router
}
