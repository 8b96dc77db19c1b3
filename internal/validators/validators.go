package validators

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// UUID validation regex (RFC 4122 v4)
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// Field length limits for stored daily logs
const (
	MaxDescriptionLength = 2000
	MaxShortFieldLength  = 100
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidUUID checks if the string is a valid RFC 4122 v4 UUID
// Format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func IsValidUUID(uuid string) bool {
	if uuid == "" {
		return false
	}
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// ValidateUUID validates and returns an error if invalid
func ValidateUUID(uuid string, fieldName string) error {
	if uuid == "" {
		return NewValidationError(fieldName, "UUID is required")
	}
	if !IsValidUUID(uuid) {
		return NewValidationError(fieldName, "invalid UUID format (expected: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx)")
	}
	return nil
}

// ValidateEmail checks for a single bare address such as parent@example.com
func ValidateEmail(email string, fieldName string) error {
	if email == "" {
		return NewValidationError(fieldName, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return NewValidationError(fieldName, "invalid email address")
	}
	return nil
}

// ValidateStringLength validates string length constraints in characters
func ValidateStringLength(value string, fieldName string, minLength, maxLength int) error {
	length := utf8.RuneCountInString(value)
	if minLength > 0 && length < minLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at least %d characters (got: %d)", minLength, length))
	}
	if maxLength > 0 && length > maxLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at most %d characters (got: %d)", maxLength, length))
	}
	return nil
}
