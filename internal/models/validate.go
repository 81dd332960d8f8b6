// ABOUTME: Input validation for models using go-playground/validator.
// ABOUTME: Converts validator failures into apperrors.ValidationError.
package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/lift/internal/apperrors"
)

const (
	MinExerciseNameLen = 2
	MaxExerciseNameLen = 50
)

var (
	validate *validator.Validate
	once     sync.Once
)

func validatorInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("exercise_name", func(fl validator.FieldLevel) bool {
			n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
			return n >= MinExerciseNameLen && n <= MaxExerciseNameLen
		})
	})
	return validate
}

// Validate checks struct tags on v and returns the first violation as a
// *apperrors.ValidationError.
func Validate(v any) error {
	return convert(validatorInstance().Struct(v))
}

// ValidateExerciseName checks a bare exercise name.
func ValidateExerciseName(name string) error {
	err := validatorInstance().Var(name, "exercise_name")
	if err != nil {
		return apperrors.Invalid("name", "%s", describe("exercise_name", ""))
	}
	return nil
}

// ValidateRange checks an optional integer against [lo, hi].
func ValidateRange(field string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return apperrors.Invalid(field, "must be between %d and %d", lo, hi)
	}
	return nil
}

// ValidateNonNegative checks an optional weight.
func ValidateNonNegative(field string, v *float64) error {
	if v != nil && *v < 0 {
		return apperrors.Invalid(field, "must not be negative")
	}
	return nil
}

func convert(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &apperrors.ValidationError{Field: fe.Field(), Message: describe(fe.Tag(), fe.Param())}
	}
	return fmt.Errorf("validate: %w", err)
}

func describe(tag, param string) string {
	switch tag {
	case "exercise_name":
		return fmt.Sprintf("must be between %d and %d characters", MinExerciseNameLen, MaxExerciseNameLen)
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + param
	case "max", "lte":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + param
	default:
		return "failed " + tag
	}
}
