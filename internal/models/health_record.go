package models

// MealSlot identifies one of the three daily meals tracked for a child
type MealSlot string

// MealSlot constants in the order they appear in a daily log
const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
)

// MealSlots lists every meal slot in display order
var MealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner}

// MealEntry describes one meal of the day.
// ImageRef is nil when no photo was uploaded; it is never conflated with an empty Description.
type MealEntry struct {
	Description string  `json:"description"`
	ImageRef    *string `json:"imageRef,omitempty"`
}

// HasImage returns true if a photo reference is attached to the meal
func (m MealEntry) HasImage() bool {
	return m.ImageRef != nil
}

// ExerciseEntry describes the child's physical activity for the day
type ExerciseEntry struct {
	Type            string `json:"type"`
	DurationMinutes string `json:"durationMinutes"`
	Description     string `json:"description"`
}

// SleepEntry describes the child's sleep for the night
type SleepEntry struct {
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	TotalHours string `json:"totalHours"`
}

// HealthRecord is the normalized daily log used to build an advice prompt.
// It is request-scoped: every text field holds a string (possibly empty), never a missing value.
type HealthRecord struct {
	Meals    map[MealSlot]MealEntry `json:"meals"`
	Exercise ExerciseEntry          `json:"exercise"`
	Sleep    SleepEntry             `json:"sleep"`
}

// NewHealthRecord returns a record with all three meal entries present and every field empty
func NewHealthRecord() HealthRecord {
	meals := make(map[MealSlot]MealEntry, len(MealSlots))
	for _, slot := range MealSlots {
		meals[slot] = MealEntry{}
	}
	return HealthRecord{Meals: meals}
}

// Meal returns the entry for a slot, or an empty entry if the map was built without it
func (r HealthRecord) Meal(slot MealSlot) MealEntry {
	if r.Meals == nil {
		return MealEntry{}
	}
	return r.Meals[slot]
}
