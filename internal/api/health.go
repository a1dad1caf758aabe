package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/logger"
)

const readinessTimeout = 2 * time.Second

// Check is a named dependency probe used by /readyz.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe, 200 only when every registered Check passes.
type HealthHandler struct {
	checks []Check
}

// NewHealthHandler constructs a HealthHandler. Checks with a nil Ping are ignored.
//
// Parameters:
//   - checks: dependency probes, typically the upload store and the Redis cache.
//
// Returns:
//   - *HealthHandler: A new handler instance.
func NewHealthHandler(checks ...Check) *HealthHandler {
	kept := make([]Check, 0, len(checks))
	for _, ch := range checks {
		if ch.Ping != nil {
			kept = append(kept, ch)
		}
	}
	return &HealthHandler{checks: kept}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 with per-check status, 503 if any check fails.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready if the upload store and cache are reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]any
	// @Failure      503  {object}  map[string]any
	// @Router       /readyz [get]
	r.GET("/readyz", h.ready)
}

func (h *HealthHandler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, ch := range h.checks {
		if err := ch.Ping(ctx); err != nil {
			logger.L().Warn().Err(err).Str("check", ch.Name).Msg("readiness check failed")
			results[ch.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[ch.Name] = "up"
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
