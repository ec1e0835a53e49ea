// Package validation checks the shape of incoming request bodies before
// anything reaches the coordinator or a store. It wraps a single
// go-playground validator instance (the library caches struct metadata, so
// one shared instance is the intended usage) with two additions:
//
//   - a "notblank" rule: the string must be non-empty after trimming;
//   - field names in messages come from the json tag ("fullName", not
//     "FullName"), so clients see the keys they actually sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is the ValidationFailed error kind. Details holds one
// human-readable sentence per failing field.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Details, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank cannot fail to register: the tag is valid and not reserved.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct validates v against its validate tags. It returns nil or *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: a programming mistake (nil or non-struct).
		return fmt.Errorf("validation.Struct: %w", err)
	}

	details := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		details = append(details, message(e))
	}
	return &Error{Details: details}
}

func message(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("field %s must be a non-empty string", e.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", e.Field())
	case "gt":
		return fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}
