package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/services"
	"go.uber.org/zap"
)

// CleanupHandler handles HTTP requests for retention cleanup
type CleanupHandler struct {
	cleanupService *services.CleanupService
	logger         *zap.Logger
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cleanupService *services.CleanupService, logger *zap.Logger) *CleanupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupHandler{
		cleanupService: cleanupService,
		logger:         logger,
	}
}

// CleanupResponse represents the response from cleanup operation
type CleanupResponse struct {
	Message string                 `json:"message" example:"Cleanup completed successfully"`
	Result  services.CleanupResult `json:"result"`
}

// RunCleanup handles POST /api/maintenance/cleanup
// @Summary Remove expired daily logs
// @Description Manually trigger removal of daily logs and meal photos older than the retention window
// @Tags maintenance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CleanupResponse "Cleanup completed successfully"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/maintenance/cleanup [post]
func (h *CleanupHandler) RunCleanup(c *gin.Context) {
	result, err := h.cleanupService.RunCleanupNow(c.Request.Context())
	if err != nil {
		h.logger.Error("manual cleanup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Cleanup failed",
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, CleanupResponse{
		Message: "Cleanup completed successfully",
		Result:  result,
	})
}
