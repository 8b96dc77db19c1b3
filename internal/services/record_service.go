package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/storage"
	"github.com/kidwell/api-backend/internal/validators"
	"go.uber.org/zap"
)

// imageCleanupTimeout bounds removing a submission's photos once its request is over
const imageCleanupTimeout = 30 * time.Second

// ImageUpload is one meal photo received with a submission
type ImageUpload struct {
	ContentType string
	Body        io.Reader
}

// RecordService stores daily logs and attaches advice to them
type RecordService struct {
	logRepo *repositories.DailyLogRepository
	images  storage.ImageStore
	advice  *AdviceService
	logger  *zap.Logger
}

// NewRecordService creates a new record service instance
func NewRecordService(logRepo *repositories.DailyLogRepository, images storage.ImageStore, advice *AdviceService, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		logRepo: logRepo,
		images:  images,
		advice:  advice,
		logger:  logger,
	}
}

// StoreImages saves uploaded meal photos and returns their references by slot.
// Photos already saved are removed again if a later one fails.
func (s *RecordService) StoreImages(ctx context.Context, parentID string, uploads map[models.MealSlot]ImageUpload) (map[models.MealSlot]string, error) {
	refs := make(map[models.MealSlot]string, len(uploads))
	if len(uploads) == 0 {
		return refs, nil
	}
	if s.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	for _, slot := range models.MealSlots {
		upload, ok := uploads[slot]
		if !ok {
			continue
		}
		ref, err := s.images.Save(ctx, parentID+"/"+string(slot), upload.ContentType, upload.Body)
		if err != nil {
			s.discardImages(ctx, refs)
			return nil, fmt.Errorf("failed to store %s image: %w", slot, err)
		}
		refs[slot] = ref
	}

	return refs, nil
}

// CreateRecord validates and stores a daily log.
// An empty logDate defaults to the current UTC day.
func (s *RecordService) CreateRecord(ctx context.Context, parentID, logDate string, fields map[string]any, images map[models.MealSlot]string) (*models.DailyLog, error) {
	if logDate == "" {
		logDate = validators.TodayUTC()
	}
	if err := validators.ValidateLogDate(logDate, "logDate"); err != nil {
		return nil, err
	}

	rec := NormalizeSubmission(fields, images)
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	log := models.NewDailyLog(uuid.New().String(), parentID, logDate, rec)
	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	s.logger.Info("daily log stored", zap.String("id", log.ID), zap.String("log_date", logDate))
	return log, nil
}

// GetRecord returns one of the parent's logs
func (s *RecordService) GetRecord(ctx context.Context, parentID, id string) (*models.DailyLog, error) {
	if err := validators.ValidateUUID(id, "id"); err != nil {
		return nil, err
	}
	return s.logRepo.FindByID(ctx, parentID, id)
}

// ListRecords returns the parent's logs within an optional date range
func (s *RecordService) ListRecords(ctx context.Context, parentID string, filter repositories.ListFilter) ([]*models.DailyLog, error) {
	if err := validators.ValidateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	return s.logRepo.List(ctx, parentID, filter)
}

// CountRecords returns how many logs a parent has stored in total
func (s *RecordService) CountRecords(ctx context.Context, parentID string) (int64, error) {
	return s.logRepo.Count(ctx, parentID)
}

// DeleteRecord removes a log and its photos
func (s *RecordService) DeleteRecord(ctx context.Context, parentID, id string) error {
	log, err := s.GetRecord(ctx, parentID, id)
	if err != nil {
		return err
	}
	if err := s.logRepo.Delete(ctx, parentID, id); err != nil {
		return err
	}

	refs := map[models.MealSlot]string{}
	for slot, meal := range log.HealthRecord().Meals {
		if meal.HasImage() {
			refs[slot] = *meal.ImageRef
		}
	}
	s.discardImages(ctx, refs)

	return nil
}

// AdviseRecord runs the advice pipeline on a stored log and saves the result on it.
// Advice failures are returned unchanged as *AdviceError. Failing to save the advice
// is only logged; the advice is still returned.
func (s *RecordService) AdviseRecord(ctx context.Context, parentID, id string) (*models.DailyLog, string, error) {
	log, err := s.GetRecord(ctx, parentID, id)
	if err != nil {
		return nil, "", err
	}

	advice, err := s.advice.AdviseRecord(ctx, log.HealthRecord())
	if err != nil {
		return log, "", err
	}

	if err := s.SaveAdvice(ctx, parentID, id, advice); err != nil {
		s.logger.Warn("failed to save advice on record", zap.String("id", id), zap.Error(err))
		return log, advice, nil
	}

	now := time.Now().UTC()
	log.Advice = &advice
	log.AdvisedAt = &now
	return log, advice, nil
}

// SaveAdvice attaches advice generated elsewhere to a stored log
func (s *RecordService) SaveAdvice(ctx context.Context, parentID, id, advice string) error {
	return s.logRepo.SaveAdvice(ctx, parentID, id, advice)
}

// DiscardImages removes stored photos, logging failures
func (s *RecordService) DiscardImages(ctx context.Context, refs map[models.MealSlot]string) {
	s.discardImages(ctx, refs)
}

// discardImages runs detached from ctx so photos are still removed after the client has gone
func (s *RecordService) discardImages(ctx context.Context, refs map[models.MealSlot]string) {
	if s.images == nil || len(refs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), imageCleanupTimeout)
	defer cancel()

	for _, ref := range refs {
		if err := s.images.Delete(ctx, ref); err != nil && !errors.Is(err, storage.ErrInvalidImageRef) {
			s.logger.Warn("failed to delete meal image", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// validateRecord enforces storage limits on a normalized record
func validateRecord(rec models.HealthRecord) error {
	for _, slot := range models.MealSlots {
		if err := validators.ValidateStringLength(rec.Meal(slot).Description, mealDescriptionFields[slot], 0, validators.MaxDescriptionLength); err != nil {
			return err
		}
	}

	checks := []struct {
		field string
		value string
		max   int
	}{
		{FieldExerciseType, rec.Exercise.Type, validators.MaxShortFieldLength},
		{FieldExerciseDuration, rec.Exercise.DurationMinutes, validators.MaxShortFieldLength},
		{FieldExerciseDescription, rec.Exercise.Description, validators.MaxDescriptionLength},
		{FieldSleepStartTime, rec.Sleep.StartTime, validators.MaxShortFieldLength},
		{FieldSleepEndTime, rec.Sleep.EndTime, validators.MaxShortFieldLength},
		{FieldSleepTotalHours, rec.Sleep.TotalHours, validators.MaxShortFieldLength},
	}
	for _, c := range checks {
		if err := validators.ValidateStringLength(c.value, c.field, 0, c.max); err != nil {
			return err
		}
	}
	return nil
}
