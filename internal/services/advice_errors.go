package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// AdviceCategory classifies a failed advice request
type AdviceCategory string

// Advice failure categories, in classification priority order
const (
	CategoryUnavailable  AdviceCategory = "unavailable"
	CategoryUnauthorized AdviceCategory = "unauthorized"
	CategoryRateLimited  AdviceCategory = "rate_limited"
	CategoryInternal     AdviceCategory = "internal"
)

// StatusCode returns the HTTP status surfaced to the caller for the category
func (c AdviceCategory) StatusCode() int {
	switch c {
	case CategoryUnavailable:
		return http.StatusServiceUnavailable
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message shown to the parent for the category
func (c AdviceCategory) UserMessage() string {
	switch c {
	case CategoryUnavailable:
		return "AI service is unreachable, please check your network connection"
	case CategoryUnauthorized:
		return "AI service authentication failed, please check the API key configuration"
	case CategoryRateLimited:
		return "Too many requests, please try again later"
	default:
		return "Failed to get health advice, please try again later"
	}
}

// Retryable reports whether a retry could plausibly succeed
func (c AdviceCategory) Retryable() bool {
	return c == CategoryUnavailable || c == CategoryInternal
}

// AdviceError is returned by the advice gateway and service on every failure.
// Cause carries operator diagnostics and is never shown to the caller.
type AdviceError struct {
	Category AdviceCategory
	Cause    error
}

func (e *AdviceError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("advice request failed (%s)", e.Category)
	}
	return fmt.Sprintf("advice request failed (%s): %v", e.Category, e.Cause)
}

func (e *AdviceError) Unwrap() error {
	return e.Cause
}

// newAdviceError wraps a cause with a category
func newAdviceError(category AdviceCategory, cause error) *AdviceError {
	return &AdviceError{Category: category, Cause: cause}
}

// CategoryOf extracts the category from an error, defaulting to internal
func CategoryOf(err error) AdviceCategory {
	var adviceErr *AdviceError
	if errors.As(err, &adviceErr) {
		return adviceErr.Category
	}
	return CategoryInternal
}

// classifyTransportError maps an error from http.Client.Do to a category.
// Timeouts are internal failures even when they happen while dialing.
func classifyTransportError(err error) AdviceCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryInternal
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryInternal
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryUnavailable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryUnavailable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return CategoryUnavailable
	}

	return CategoryInternal
}

// classifyStatusCode maps a non-200 backend status to a category
func classifyStatusCode(status int) AdviceCategory {
	switch status {
	case http.StatusUnauthorized:
		return CategoryUnauthorized
	case http.StatusTooManyRequests:
		return CategoryRateLimited
	default:
		return CategoryInternal
	}
}
