package validation

import (
	"fmt"
	"strings"

	"github.com/quantfold/finkit/errors"
)

// FieldError names one invalid field and what is wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors through chained checks, for validation
// that struct tags cannot express (cross-field rules, indexed slices).
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failed check for field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the accumulated field errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate folds the accumulated errors into one invalid-input AppError,
// or nil when every check passed.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return toAppError(v.errors)
}

// Required fails when value is empty or whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Min fails when value is below minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// Max fails when value exceeds maxVal.
func (v *Validator) Max(field string, value, maxVal int) *Validator {
	if value > maxVal {
		v.AddError(field, fmt.Sprintf("must be %d or less", maxVal))
	}
	return v
}

// Range fails when value falls outside [minVal, maxVal].
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
	return v
}

// OneOf fails when a non-empty value is not in the allowed set. An empty
// value passes so optional enum fields validate cleanly.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Positive fails when value is zero or negative. Durations validate through
// their nanosecond count.
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.AddError(field, "must be positive")
	}
	return v
}

// Custom fails with message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required value without building a Validator.
func Required(field, value string) error {
	if appErr := New().Required(field, value).Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// toAppError folds field errors into one invalid-input AppError whose
// details carry the structured field list.
func toAppError(fieldErrors []FieldError) *errors.AppError {
	messages := make([]string, len(fieldErrors))
	for i, e := range fieldErrors {
		messages[i] = e.Field + ": " + e.Message
	}
	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{"fields": fieldErrors}
	return appErr
}
