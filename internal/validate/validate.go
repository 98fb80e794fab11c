// Package validate is the data-model validation layer. It is independent of
// storage: it takes a value, applies the declared rules and returns either
// nil or an apperrors.ValidationError carrying per-field detail.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
)

// loose international phone pattern: optional +, then digits with common separators
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)

// Validator validates request and model structs.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom domain rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("car_year", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= 1900 && year <= time.Now().Year()+1
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate implements the echo.Validator interface for request binding.
func (cv *Validator) Validate(i interface{}) error {
	return cv.Struct(i)
}

// Struct validates any tagged struct and converts failures into the
// application's validation error shape.
func (cv *Validator) Struct(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}
	return &apperrors.ValidationError{Fields: fields}
}

// fieldPath strips the root struct name from the namespace so nested fields
// read like "images[0].url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "car_year":
		return fmt.Sprintf("must be between 1900 and %d", time.Now().Year()+1)
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
