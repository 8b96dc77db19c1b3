package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kidwell/api-backend/internal/models"
	"gorm.io/gorm"
)

// ErrDailyLogNotFound is returned when a log does not exist or belongs to another parent
var ErrDailyLogNotFound = errors.New("daily log not found")

// DailyLogRepository handles database operations for daily health logs
type DailyLogRepository struct {
	db *gorm.DB
}

// NewDailyLogRepository creates a new daily log repository instance
func NewDailyLogRepository(db *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// ListFilter narrows a history query.
// From and To are inclusive YYYY-MM-DD bounds; empty means unbounded.
type ListFilter struct {
	From  string
	To    string
	Limit int
}

// MaxListLimit caps the number of logs returned by List
const MaxListLimit = 100

// Create inserts a new daily log
func (r *DailyLogRepository) Create(ctx context.Context, log *models.DailyLog) error {
	if log == nil {
		return fmt.Errorf("daily log cannot be nil")
	}
	if log.ID == "" {
		return fmt.Errorf("daily log ID is required")
	}
	if log.ParentID == "" {
		return fmt.Errorf("parent ID is required")
	}

	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create daily log: %w", err)
	}

	return nil
}

// FindByID retrieves a log owned by the given parent
func (r *DailyLogRepository) FindByID(ctx context.Context, parentID, id string) (*models.DailyLog, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	var log models.DailyLog
	err := r.db.WithContext(ctx).
		Where("id = ? AND parent_id = ?", id, parentID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDailyLogNotFound, id)
		}
		return nil, fmt.Errorf("failed to find daily log: %w", err)
	}

	return &log, nil
}

// List returns a parent's logs, newest log date first
func (r *DailyLogRepository) List(ctx context.Context, parentID string, filter ListFilter) ([]*models.DailyLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := r.db.WithContext(ctx).Where("parent_id = ?", parentID)
	if filter.From != "" {
		query = query.Where("log_date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("log_date <= ?", filter.To)
	}

	var logs []*models.DailyLog
	if err := query.Order("log_date DESC").Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}

	return logs, nil
}

// SaveAdvice stores generated advice on a log
func (r *DailyLogRepository) SaveAdvice(ctx context.Context, parentID, id, advice string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.DailyLog{}).
		Where("id = ? AND parent_id = ?", id, parentID).
		Updates(map[string]interface{}{
			"advice":     advice,
			"advised_at": now,
			"updated_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save advice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDailyLogNotFound, id)
	}

	return nil
}

// Delete permanently removes a log owned by the given parent
func (r *DailyLogRepository) Delete(ctx context.Context, parentID, id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND parent_id = ?", id, parentID).
		Delete(&models.DailyLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete daily log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDailyLogNotFound, id)
	}

	return nil
}

// FindOlderThan returns logs created before the cutoff
func (r *DailyLogRepository) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*models.DailyLog, error) {
	var logs []*models.DailyLog
	if err := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find old daily logs: %w", err)
	}
	return logs, nil
}

// DeleteOlderThan removes logs created before the cutoff and returns how many were deleted
func (r *DailyLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.DailyLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old daily logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of logs stored for a parent
func (r *DailyLogRepository) Count(ctx context.Context, parentID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DailyLog{}).Where("parent_id = ?", parentID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count daily logs: %w", err)
	}
	return count, nil
}
