package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/models"
)

// ServiceName is reported by the health endpoints
const ServiceName = "kidwell-api"

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// PingHandler handles the /ping endpoint for health checks
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /ping [get]
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
	})
}

// ReadyHandler returns the /readyz handler; it fails while the database is unreachable
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /readyz [get]
func ReadyHandler(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if err := ping(ctx); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
		}

		c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Service:   ServiceName,
		})
	}
}
