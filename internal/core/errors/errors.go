package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
var (
	// Ticket record shape validation. A record failing any of these is
	// rejected at ingestion, never silently coerced.
	ErrMissingTicketID        = errors.New("ticket id is required")
	ErrMissingCreatedAt       = errors.New("created_at is required")
	ErrInvalidStatus          = errors.New("invalid ticket status")
	ErrInvalidPriority        = errors.New("invalid ticket priority")
	ErrResolvedAtMissing      = errors.New("resolved_at is required for a terminal status")
	ErrResolvedAtUnexpected   = errors.New("resolved_at is set on an unresolved ticket")
	ErrNegativeResolutionTime = errors.New("resolution time is negative")
	ErrSatisfactionOutOfRange = errors.New("customer satisfaction must be between 1 and 5")

	// Query validation
	ErrInvalidTimestamp   = errors.New("timestamp must be RFC 3339")
	ErrInvalidTimeWindow  = errors.New("time window start must not be after end")
	ErrInvalidThreshold   = errors.New("threshold must be positive")
	ErrInvalidTrendWeeks  = errors.New("trend weeks must be positive")
	ErrInvalidPendingDays = errors.New("pending days must be positive")

	// Generic
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// RecordError ties a shape error to the record it rejected, so skipped
// records always leave a trace.
type RecordError struct {
	TicketID string
	Err      error
}

func (e *RecordError) Error() string {
	if e.TicketID == "" {
		return fmt.Sprintf("record rejected: %v", e.Err)
	}
	return fmt.Sprintf("record %s rejected: %v", e.TicketID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// SubReportError marks the failure of one section during report assembly.
// The assembler records it and continues with the remaining sections.
type SubReportError struct {
	Section string
	Err     error
}

func (e *SubReportError) Error() string {
	return fmt.Sprintf("sub-report %s failed: %v", e.Section, e.Err)
}

func (e *SubReportError) Unwrap() error {
	return e.Err
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
