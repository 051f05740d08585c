package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies completion-provider failures.
type ErrorType string

const (
	ErrorTypeQuota    ErrorType = "quota_exceeded"
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeUnknown  ErrorType = "provider_error"
)

// Error represents a structured provider error with classification.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	Cause      error
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured provider error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	// Quota exhaustion and rate limiting degrade to the rule-based path
	if strings.Contains(errStr, "429") || strings.Contains(lower, "insufficient_quota") ||
		strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota") {
		provErr = NewError(ErrorTypeQuota, "quota exceeded", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Authentication errors (not retryable)
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		provErr = NewError(ErrorTypeAuth, "authentication failed", false, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Connection failures and timeouts (retryable)
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		provErr = NewError(ErrorTypeEndpoint, "endpoint unreachable", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// 5xx server errors (retryable)
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		provErr = NewError(ErrorTypeEndpoint, "server error", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	provErr = NewError(ErrorTypeUnknown, "provider error", false, err)
	provErr.StatusCode = statusCode
	return provErr
}

// IsQuotaExceeded reports whether the error was classified as quota
// exhaustion or rate limiting.
func IsQuotaExceeded(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeQuota
	}
	return false
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Type
	}
	return ErrorTypeUnknown
}
