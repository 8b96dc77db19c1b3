package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

// TestDailyLogTableName tests the table name override
func TestDailyLogTableName(t *testing.T) {
	if got := (DailyLog{}).TableName(); got != "daily_logs" {
		t.Errorf("DailyLog.TableName() = %q, want %q", got, "daily_logs")
	}
}

func TestDailyLogHasAdvice(t *testing.T) {
	tests := []struct {
		name   string
		advice *string
		want   bool
	}{
		{"no advice", nil, false},
		{"empty advice", strPtr(""), false},
		{"advice", strPtr("Sleep earlier."), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &DailyLog{Advice: tt.advice}
			if got := log.HasAdvice(); got != tt.want {
				t.Errorf("HasAdvice() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDailyLogRoundTrip checks that flattening and rebuilding a record is lossless
func TestDailyLogRoundTrip(t *testing.T) {
	rec := NewHealthRecord()
	rec.Meals[MealBreakfast] = MealEntry{Description: "Oatmeal", ImageRef: strPtr("p/breakfast/a.jpg")}
	rec.Meals[MealLunch] = MealEntry{Description: ""}
	rec.Meals[MealDinner] = MealEntry{Description: "Soup", ImageRef: strPtr("p/dinner/b.png")}
	rec.Exercise = ExerciseEntry{Type: "Swimming", DurationMinutes: "45", Description: "Pool"}
	rec.Sleep = SleepEntry{StartTime: "21:00", EndTime: "07:00", TotalHours: "10"}

	log := NewDailyLog("id-1", "parent-1", "2025-11-10", rec)
	if log.ID != "id-1" || log.ParentID != "parent-1" || log.LogDate != "2025-11-10" {
		t.Errorf("identity fields not set: %+v", log)
	}
	if log.LunchImageRef != nil {
		t.Error("meal without photo must have nil image ref")
	}

	got := log.HealthRecord()
	for _, slot := range MealSlots {
		want := rec.Meal(slot)
		have := got.Meal(slot)
		if have.Description != want.Description || have.HasImage() != want.HasImage() {
			t.Errorf("%s = %+v, want %+v", slot, have, want)
		}
		if want.HasImage() && *have.ImageRef != *want.ImageRef {
			t.Errorf("%s image ref = %q, want %q", slot, *have.ImageRef, *want.ImageRef)
		}
	}
	if got.Exercise != rec.Exercise || got.Sleep != rec.Sleep {
		t.Errorf("exercise/sleep = %+v %+v", got.Exercise, got.Sleep)
	}
}

// TestDailyLogHooks tests that GORM hooks keep timestamps in UTC
func TestDailyLogHooks(t *testing.T) {
	log := &DailyLog{}
	if err := log.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if log.CreatedAt.IsZero() || log.CreatedAt.Location() != time.UTC || !log.UpdatedAt.Equal(log.CreatedAt) {
		t.Errorf("BeforeCreate timestamps = %v / %v", log.CreatedAt, log.UpdatedAt)
	}

	advised := time.Date(2025, 11, 10, 20, 0, 0, 0, time.FixedZone("CET", 3600))
	log.AdvisedAt = &advised
	if err := log.BeforeUpdate(nil); err != nil {
		t.Fatalf("BeforeUpdate() error = %v", err)
	}
	if log.AdvisedAt.Location() != time.UTC || !log.AdvisedAt.Equal(advised) {
		t.Errorf("AdvisedAt = %v, want %v in UTC", log.AdvisedAt, advised)
	}
	if log.UpdatedAt.Location() != time.UTC {
		t.Error("UpdatedAt not in UTC")
	}
}
