package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/middleware"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/services"
	"github.com/kidwell/api-backend/internal/storage"
	"github.com/kidwell/api-backend/internal/validators"
	"go.uber.org/zap"
)

// RecordHandler handles HTTP requests for daily log history
type RecordHandler struct {
	recordService *services.RecordService
	logger        *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService *services.RecordService, logger *zap.Logger) *RecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// RecordListResponse is the response of the history query
type RecordListResponse struct {
	Records []*models.DailyLog `json:"records"`
	// Count is the number of records in this response
	Count int `json:"count"`
	// Total is the number of logs the parent has stored, ignoring the filter
	Total int64 `json:"total"`
}

// CreateRecord handles POST /api/records
// @Summary Store a daily health log
// @Description Stores a child's daily log without requesting advice. Accepts the same JSON or multipart body as the advice endpoint. logDate defaults to today (UTC).
// @Tags records
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body AdviceRequest true "Daily health log"
// @Success 201 {object} models.DailyLog "Log stored"
// @Failure 400 {object} ErrorResponse "Invalid request or validation error"
// @Failure 401 {object} ErrorResponse "Missing or invalid bearer token"
// @Failure 413 {object} ErrorResponse "Request body too large"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	parentID := middleware.ParentID(c)

	sub, err := parseSubmission(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, ErrorResponse{Error: "Invalid request format", Message: err.Error()})
		return
	}
	defer sub.close()

	refs, err := h.recordService.StoreImages(ctx, parentID, sub.uploads)
	if err != nil {
		h.respondError(c, "Failed to store images", err)
		return
	}

	log, err := h.recordService.CreateRecord(ctx, parentID, sub.text(fieldLogDate), sub.fields, refs)
	if err != nil {
		h.recordService.DiscardImages(ctx, refs)
		h.respondError(c, "Failed to store record", err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListRecords handles GET /api/records
// @Summary List daily health logs
// @Description Returns the caller's logs, newest first, optionally limited to a date range. total counts every stored log.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param limit query int false "Maximum number of logs (1-100)" default(100)
// @Success 200 {object} RecordListResponse "Logs"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Missing or invalid bearer token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	filter := repositories.ListFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > repositories.MaxListLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid query parameters",
				Message: "limit must be between 1 and 100",
			})
			return
		}
		filter.Limit = limit
	}

	ctx := c.Request.Context()
	parentID := middleware.ParentID(c)

	logs, err := h.recordService.ListRecords(ctx, parentID, filter)
	if err != nil {
		h.respondError(c, "Failed to list records", err)
		return
	}
	if logs == nil {
		logs = []*models.DailyLog{}
	}

	total, err := h.recordService.CountRecords(ctx, parentID)
	if err != nil {
		h.respondError(c, "Failed to list records", err)
		return
	}

	c.JSON(http.StatusOK, RecordListResponse{Records: logs, Count: len(logs), Total: total})
}

// GetRecord handles GET /api/records/:id
// @Summary Get a daily health log
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} models.DailyLog "Log"
// @Failure 400 {object} ErrorResponse "Invalid record ID"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/records/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	log, err := h.recordService.GetRecord(c.Request.Context(), middleware.ParentID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to get record", err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteRecord handles DELETE /api/records/:id
// @Summary Delete a daily health log
// @Description Deletes the log and its meal photos.
// @Tags records
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Invalid record ID"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.recordService.DeleteRecord(c.Request.Context(), middleware.ParentID(c), c.Param("id")); err != nil {
		h.respondError(c, "Failed to delete record", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdviseRecord handles POST /api/records/:id/advice
// @Summary Get advice for a stored log
// @Description Runs the advice pipeline on a stored log and saves the advice on it.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} models.AdviceResult "Advice generated"
// @Failure 400 {object} ErrorResponse "Invalid record ID"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 401 {object} models.AdviceResult "AI service authentication failed"
// @Failure 429 {object} models.AdviceResult "Too many requests"
// @Failure 500 {object} models.AdviceResult "Failed to get health advice"
// @Failure 503 {object} models.AdviceResult "AI service is unreachable"
// @Router /api/records/{id}/advice [post]
func (h *RecordHandler) AdviseRecord(c *gin.Context) {
	_, advice, err := h.recordService.AdviseRecord(c.Request.Context(), middleware.ParentID(c), c.Param("id"))
	if err != nil {
		var adviceErr *services.AdviceError
		if errors.As(err, &adviceErr) {
			c.JSON(adviceErr.Category.StatusCode(), models.NewAdviceError(adviceErr.Category.UserMessage()))
			return
		}
		h.respondError(c, "Failed to get advice", err)
		return
	}

	c.JSON(http.StatusOK, models.NewAdviceSuccess(advice))
}

// respondError writes an ErrorResponse with a status derived from the error
func (h *RecordHandler) respondError(c *gin.Context, title string, err error) {
	status := determineErrorStatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(title, zap.Error(err))
		message = "Internal server error"
	}
	c.JSON(status, ErrorResponse{Error: title, Message: message})
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// determineErrorStatusCode maps error types to HTTP status codes
func determineErrorStatusCode(err error) int {
	var validationErr *validators.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUnsupportedImageType):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrDailyLogNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
