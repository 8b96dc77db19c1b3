package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog is a persisted snapshot of a child's daily health log.
// All timestamps are stored in UTC.
type DailyLog struct {
	// ID is the server-generated identifier (RFC 4122 v4)
	ID string `gorm:"primaryKey;type:text;not null" json:"id"`

	// ParentID identifies the account that submitted the log
	ParentID string `gorm:"type:text;not null;index" json:"parent_id"`

	// LogDate is the calendar day the log describes
	// Format: 2025-11-10
	LogDate string `gorm:"type:text;not null;index" json:"log_date"`

	BreakfastDescription string  `gorm:"type:text" json:"breakfast_description"`
	BreakfastImageRef    *string `gorm:"type:text" json:"breakfast_image_ref,omitempty"`
	LunchDescription     string  `gorm:"type:text" json:"lunch_description"`
	LunchImageRef        *string `gorm:"type:text" json:"lunch_image_ref,omitempty"`
	DinnerDescription    string  `gorm:"type:text" json:"dinner_description"`
	DinnerImageRef       *string `gorm:"type:text" json:"dinner_image_ref,omitempty"`

	ExerciseType        string `gorm:"type:text" json:"exercise_type"`
	ExerciseDuration    string `gorm:"type:text" json:"exercise_duration"`
	ExerciseDescription string `gorm:"type:text" json:"exercise_description"`

	SleepStartTime  string `gorm:"type:text" json:"sleep_start_time"`
	SleepEndTime    string `gorm:"type:text" json:"sleep_end_time"`
	SleepTotalHours string `gorm:"type:text" json:"sleep_total_hours"`

	// Advice is the most recent advice text generated for this log, if any
	Advice *string `gorm:"type:text" json:"advice,omitempty"`

	// AdvisedAt is when Advice was last generated
	AdvisedAt *time.Time `gorm:"type:datetime" json:"advised_at,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null" json:"updated_at"`
}

// TableName overrides the default table name for GORM
func (DailyLog) TableName() string {
	return "daily_logs"
}

// BeforeCreate is a GORM hook that ensures timestamps are in UTC
func (l *DailyLog) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	return nil
}

// BeforeUpdate is a GORM hook that ensures UpdatedAt is in UTC
func (l *DailyLog) BeforeUpdate(tx *gorm.DB) error {
	l.UpdatedAt = time.Now().UTC()
	if l.AdvisedAt != nil {
		utcTime := l.AdvisedAt.UTC()
		l.AdvisedAt = &utcTime
	}
	return nil
}

// HasAdvice returns true if advice has been generated for the log
func (l *DailyLog) HasAdvice() bool {
	return l.Advice != nil && *l.Advice != ""
}

// NewDailyLog flattens a normalized record into a persistable log
func NewDailyLog(id, parentID, logDate string, rec HealthRecord) *DailyLog {
	breakfast := rec.Meal(MealBreakfast)
	lunch := rec.Meal(MealLunch)
	dinner := rec.Meal(MealDinner)

	return &DailyLog{
		ID:                   id,
		ParentID:             parentID,
		LogDate:              logDate,
		BreakfastDescription: breakfast.Description,
		BreakfastImageRef:    breakfast.ImageRef,
		LunchDescription:     lunch.Description,
		LunchImageRef:        lunch.ImageRef,
		DinnerDescription:    dinner.Description,
		DinnerImageRef:       dinner.ImageRef,
		ExerciseType:         rec.Exercise.Type,
		ExerciseDuration:     rec.Exercise.DurationMinutes,
		ExerciseDescription:  rec.Exercise.Description,
		SleepStartTime:       rec.Sleep.StartTime,
		SleepEndTime:         rec.Sleep.EndTime,
		SleepTotalHours:      rec.Sleep.TotalHours,
	}
}

// HealthRecord rebuilds the request-scoped record from the stored columns
func (l *DailyLog) HealthRecord() HealthRecord {
	rec := NewHealthRecord()
	rec.Meals[MealBreakfast] = MealEntry{Description: l.BreakfastDescription, ImageRef: l.BreakfastImageRef}
	rec.Meals[MealLunch] = MealEntry{Description: l.LunchDescription, ImageRef: l.LunchImageRef}
	rec.Meals[MealDinner] = MealEntry{Description: l.DinnerDescription, ImageRef: l.DinnerImageRef}
	rec.Exercise = ExerciseEntry{
		Type:            l.ExerciseType,
		DurationMinutes: l.ExerciseDuration,
		Description:     l.ExerciseDescription,
	}
	rec.Sleep = SleepEntry{
		StartTime:  l.SleepStartTime,
		EndTime:    l.SleepEndTime,
		TotalHours: l.SleepTotalHours,
	}
	return rec
}
