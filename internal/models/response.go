package models

import "time"

// HealthResponse represents the response structure for health check endpoints
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// AdviceStatus values carried in AdviceResult.Status
const (
	AdviceStatusSuccess = "success"
	AdviceStatusError   = "error"
)

// AdviceData wraps the advisory text returned by the backend
type AdviceData struct {
	Advice string `json:"advice" example:"Add a portion of vegetables to lunch."`
}

// AdviceResult is the response payload of the advice endpoints.
// Data is set on success, Message on error.
type AdviceResult struct {
	Status  string      `json:"status" example:"success"`
	Data    *AdviceData `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewAdviceSuccess builds a success payload
func NewAdviceSuccess(advice string) AdviceResult {
	return AdviceResult{
		Status: AdviceStatusSuccess,
		Data:   &AdviceData{Advice: advice},
	}
}

// NewAdviceError builds an error payload
func NewAdviceError(message string) AdviceResult {
	return AdviceResult{
		Status:  AdviceStatusError,
		Message: message,
	}
}
