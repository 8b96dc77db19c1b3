package services

import (
	"encoding/json"
	"strconv"

	"github.com/kidwell/api-backend/internal/models"
)

// Submission field names accepted from the client
const (
	FieldBreakfastDescription = "breakfastDescription"
	FieldLunchDescription     = "lunchDescription"
	FieldDinnerDescription    = "dinnerDescription"
	FieldExerciseType         = "exerciseType"
	FieldExerciseDuration     = "exerciseDuration"
	FieldExerciseDescription  = "exerciseDescription"
	FieldSleepStartTime       = "sleepStartTime"
	FieldSleepEndTime         = "sleepEndTime"
	FieldSleepTotalHours      = "sleepTotalHours"
)

// mealDescriptionFields maps each meal slot to its description field
var mealDescriptionFields = map[models.MealSlot]string{
	models.MealBreakfast: FieldBreakfastDescription,
	models.MealLunch:     FieldLunchDescription,
	models.MealDinner:    FieldDinnerDescription,
}

// MealImageField returns the multipart field name carrying a meal photo, e.g. "breakfastImage"
func MealImageField(slot models.MealSlot) string {
	return string(slot) + "Image"
}

// NormalizeSubmission turns a loosely-typed submission into a HealthRecord.
// It never fails: missing or wrong-typed values become empty strings.
// images maps meal slots to upload references; an empty reference counts as no image.
func NormalizeSubmission(fields map[string]any, images map[models.MealSlot]string) models.HealthRecord {
	rec := models.NewHealthRecord()

	for _, slot := range models.MealSlots {
		entry := models.MealEntry{
			Description: textField(fields, mealDescriptionFields[slot]),
		}
		if ref, ok := images[slot]; ok && ref != "" {
			entry.ImageRef = &ref
		}
		rec.Meals[slot] = entry
	}

	rec.Exercise = models.ExerciseEntry{
		Type:            textField(fields, FieldExerciseType),
		DurationMinutes: textField(fields, FieldExerciseDuration),
		Description:     textField(fields, FieldExerciseDescription),
	}

	rec.Sleep = models.SleepEntry{
		StartTime:  textField(fields, FieldSleepStartTime),
		EndTime:    textField(fields, FieldSleepEndTime),
		TotalHours: textField(fields, FieldSleepTotalHours),
	}

	return rec
}

// textField reads a field as text. Numbers are rendered without trailing zeros;
// anything else that is not a string degrades to "".
func textField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}

	switch v := fields[key].(type) {
	case string:
		return v
	case []string:
		// form values arrive as slices
		if len(v) > 0 {
			return v[0]
		}
		return ""
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
