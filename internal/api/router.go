package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/guttosm/stockpulse/docs"
	"github.com/guttosm/stockpulse/internal/metrics"
	"github.com/guttosm/stockpulse/internal/middleware"
)

const requestTimeout = 90 * time.Second

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, Metrics, RateLimiter).
//   - Adds request timeout handling, long enough for an explanation round-trip.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - m (*metrics.Metrics): Metrics registry; nil disables the metrics middleware and endpoint.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)
	if m != nil {
		router.Use(middleware.Metrics(m))
	}
	router.Use(middleware.RateLimiter())

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Metrics ──────────────────────────────────
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.POST("/uploads", handler.Upload)
		v1.GET("/report", handler.GetReport)
		v1.POST("/report", handler.ExplainReport)
	}

	return router
}
