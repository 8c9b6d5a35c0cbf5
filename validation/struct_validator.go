package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/quantfold/finkit/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator lazily builds the shared validator. Field names in error
// output come from json tags so API clients see the names they sent.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks s against its `validate:"..."` struct tags and returns an
// invalid-input AppError listing every failed field, or nil.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   toSnakeCase(e.Field()),
			Message: describeTag(e),
		})
	}
	return toAppError(fieldErrors)
}

// describeTag renders a validator tag failure as a short client-facing
// message.
func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "dive":
		return "contains an invalid element"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteRune('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
