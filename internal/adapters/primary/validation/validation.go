package validation

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/soportehq/support-metrics/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// ParseStringQueryParam safely parses a string query parameter
func ParseStringQueryParam(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

// ParsePositiveIntQueryParam parses an integer query parameter that must be
// strictly positive when present. The sentinel is returned on any malformed
// or non-positive value.
func ParsePositiveIntQueryParam(r *http.Request, key string, defaultValue int, sentinel error) (int, error) {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return 0, sentinel
	}
	return value, nil
}

// ParsePositiveFloatQueryParam parses a float query parameter that must be
// strictly positive when present.
func ParsePositiveFloatQueryParam(r *http.Request, key string, defaultValue float64, sentinel error) (float64, error) {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || value <= 0 {
		return 0, sentinel
	}
	return value, nil
}

// ParseTimeQueryParam parses an RFC 3339 timestamp query parameter.
func ParseTimeQueryParam(r *http.Request, key string) (*time.Time, error) {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return nil, nil
	}

	value, err := time.Parse(time.RFC3339, valueStr)
	if err != nil {
		return nil, apperrors.ErrInvalidTimestamp
	}
	return &value, nil
}
