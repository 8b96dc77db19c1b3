package validators

import (
	"time"
)

// LogDateFormat is the calendar-day format of daily logs
const LogDateFormat = "2006-01-02"

// IsValidLogDate checks for a real calendar day in YYYY-MM-DD form
func IsValidLogDate(date string) bool {
	_, err := time.Parse(LogDateFormat, date)
	return err == nil
}

// ValidateLogDate validates a log date and returns an error if invalid
func ValidateLogDate(date string, fieldName string) error {
	if date == "" {
		return NewValidationError(fieldName, "date is required")
	}
	if !IsValidLogDate(date) {
		return NewValidationError(fieldName, "invalid date format (expected: 2025-11-10)")
	}
	return nil
}

// ValidateDateRange validates optional from/to bounds of a history query
func ValidateDateRange(from, to string) error {
	if from != "" {
		if err := ValidateLogDate(from, "from"); err != nil {
			return err
		}
	}
	if to != "" {
		if err := ValidateLogDate(to, "to"); err != nil {
			return err
		}
	}
	if from != "" && to != "" && from > to {
		return NewValidationError("from", "must not be after to")
	}
	return nil
}

// TodayUTC returns the current UTC calendar day
func TodayUTC() string {
	return time.Now().UTC().Format(LogDateFormat)
}
