package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/middleware"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/services"
	"github.com/kidwell/api-backend/internal/storage"
	"github.com/kidwell/api-backend/internal/validators"
	"go.uber.org/zap"
)

// DigestTimeout bounds sending one advice digest
const DigestTimeout = 15 * time.Second

// AdviceHandler handles HTTP requests for health advice
type AdviceHandler struct {
	adviceService *services.AdviceService
	recordService *services.RecordService
	digest        services.DigestSender
	logger        *zap.Logger
}

// NewAdviceHandler creates a new advice handler.
// digest may be nil to disable advice emails.
func NewAdviceHandler(
	adviceService *services.AdviceService,
	recordService *services.RecordService,
	digest services.DigestSender,
	logger *zap.Logger,
) *AdviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceHandler{
		adviceService: adviceService,
		recordService: recordService,
		digest:        digest,
		logger:        logger,
	}
}

// RequestAdvice handles POST /api/health/advice
// @Summary Get health advice for a daily log
// @Description Builds a prompt from the child's meals, exercise and sleep and asks the AI advisor for recommendations. Accepts JSON or multipart/form-data with optional breakfastImage, lunchImage and dinnerImage files. Every field is optional. Set saveRecord to keep the log and advice in history; set notifyEmail to an address, or to true for the address in the parent token, to receive the advice by email.
// @Tags advice
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body AdviceRequest false "Daily health log"
// @Success 200 {object} models.AdviceResult "Advice generated"
// @Failure 400 {object} models.AdviceResult "Malformed body or unsupported image"
// @Failure 401 {object} models.AdviceResult "AI service authentication failed"
// @Failure 413 {object} models.AdviceResult "Request body too large"
// @Failure 429 {object} models.AdviceResult "Too many requests"
// @Failure 500 {object} models.AdviceResult "Failed to get health advice"
// @Failure 503 {object} models.AdviceResult "AI service is unreachable"
// @Router /api/health/advice [post]
func (h *AdviceHandler) RequestAdvice(c *gin.Context) {
	ctx := c.Request.Context()
	parentID := middleware.ParentID(c)

	sub, err := parseSubmission(c)
	if err != nil {
		h.rejectSubmission(c, err)
		return
	}
	defer sub.close()

	refs, err := h.recordService.StoreImages(ctx, parentID, sub.uploads)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) {
			c.JSON(http.StatusBadRequest, models.NewAdviceError("Meal photos must be JPEG, PNG, WebP, GIF or HEIC images"))
			return
		}
		h.logger.Error("failed to store meal images", zap.Error(err))
		c.JSON(services.CategoryInternal.StatusCode(), models.NewAdviceError(services.CategoryInternal.UserMessage()))
		return
	}

	rec := services.NormalizeSubmission(sub.fields, refs)
	advice, err := h.adviceService.AdviseRecord(ctx, rec)
	if err != nil {
		h.recordService.DiscardImages(ctx, refs)
		category := services.CategoryOf(err)
		c.JSON(category.StatusCode(), models.NewAdviceError(category.UserMessage()))
		return
	}

	logDate := sub.text(fieldLogDate)
	if sub.flag(fieldSaveRecord) {
		h.saveAdvisedRecord(ctx, parentID, logDate, sub.fields, refs, advice)
	} else {
		h.recordService.DiscardImages(ctx, refs)
	}

	if email := digestRecipient(c, sub); email != "" {
		if logDate == "" || !validators.IsValidLogDate(logDate) {
			logDate = validators.TodayUTC()
		}
		h.sendDigest(ctx, email, logDate, advice)
	}

	c.JSON(http.StatusOK, models.NewAdviceSuccess(advice))
}

// saveAdvisedRecord stores the log with its advice; failures are logged, the advice is still returned
func (h *AdviceHandler) saveAdvisedRecord(ctx context.Context, parentID, logDate string, fields map[string]any, refs map[models.MealSlot]string, advice string) {
	log, err := h.recordService.CreateRecord(ctx, parentID, logDate, fields, refs)
	if err != nil {
		h.logger.Warn("failed to save advised record", zap.Error(err))
		h.recordService.DiscardImages(ctx, refs)
		return
	}
	if err := h.recordService.SaveAdvice(ctx, parentID, log.ID, advice); err != nil {
		h.logger.Warn("failed to save advice on record", zap.String("id", log.ID), zap.Error(err))
	}
}

// digestRecipient resolves notifyEmail: an address is used as given, true
// selects the email in the parent's token
func digestRecipient(c *gin.Context, sub *submission) string {
	value := sub.text(fieldNotifyEmail)
	if _, isBool := sub.fields[fieldNotifyEmail].(bool); isBool {
		value = strconv.FormatBool(sub.flag(fieldNotifyEmail))
	}
	if notify, err := strconv.ParseBool(value); err == nil {
		if notify {
			return middleware.ParentEmail(c)
		}
		return ""
	}
	return value
}

// sendDigest emails the advice; a failed digest never fails the request
func (h *AdviceHandler) sendDigest(ctx context.Context, email, logDate, advice string) {
	if h.digest == nil {
		h.logger.Debug("advice digest requested but email is not configured")
		return
	}
	if err := validators.ValidateEmail(email, fieldNotifyEmail); err != nil {
		h.logger.Warn("skipping advice digest", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DigestTimeout)
	defer cancel()

	if err := h.digest.SendAdviceDigest(ctx, email, logDate, advice); err != nil {
		h.logger.Error("failed to send advice digest", zap.Error(err))
	}
}

func (h *AdviceHandler) rejectSubmission(c *gin.Context, err error) {
	if errors.Is(err, errBodyTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.NewAdviceError("Request body too large"))
		return
	}
	h.logger.Debug("rejected submission", zap.Error(err))
	c.JSON(http.StatusBadRequest, models.NewAdviceError("Invalid request body"))
}

// AdviceRequest documents the accepted submission fields
type AdviceRequest struct {
	BreakfastDescription string `json:"breakfastDescription" example:"Oatmeal with banana"`
	LunchDescription     string `json:"lunchDescription" example:"Rice and fish"`
	DinnerDescription    string `json:"dinnerDescription" example:"Vegetable soup"`
	ExerciseType         string `json:"exerciseType" example:"Swimming"`
	ExerciseDuration     string `json:"exerciseDuration" example:"45"`
	ExerciseDescription  string `json:"exerciseDescription" example:"Lessons at the pool"`
	SleepStartTime       string `json:"sleepStartTime" example:"21:00"`
	SleepEndTime         string `json:"sleepEndTime" example:"07:00"`
	SleepTotalHours      string `json:"sleepTotalHours" example:"10"`
	LogDate              string `json:"logDate,omitempty" example:"2025-11-10"`
	SaveRecord           bool   `json:"saveRecord,omitempty"`
	// NotifyEmail is an address, or "true" for the email in the parent token
	NotifyEmail string `json:"notifyEmail,omitempty" example:"parent@example.com"`
}
