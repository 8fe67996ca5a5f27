// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
)

// MaxPrice is the largest value a numeric(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("9999999.99")

// structValidator is safe for concurrent use and caches struct metadata.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names so details match the request body
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if value, ok := field.Interface().(decimal.Decimal); ok {
			return value.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("money", validateMoney)

	return v
}

// validateMoney accepts 0 <= value <= MaxPrice with at most two fraction digits.
func validateMoney(field validator.FieldLevel) bool {
	value, err := decimal.NewFromString(field.Field().String())
	if err != nil {
		return false
	}
	return !value.IsNegative() && value.LessThanOrEqual(MaxPrice) && value.Equal(value.Round(2))
}

// Struct validates a DTO against its `validate` tags.
//
// It returns nil or a VALIDATION_ERROR [apperr.AppError] with one detail per
// failed field, named after the field's JSON key.
func Struct(target interface{}) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldPath(fieldError),
			Message: friendlyMessage(fieldError),
		})
	}

	return apperr.ValidationError(MessageFailed, details...)
}

// fieldPath strips the root struct name from the namespace.
//
//	"createBookRequest.tags[1]" → "tags[1]"
func fieldPath(fieldError validator.FieldError) string {
	_, path, found := strings.Cut(fieldError.Namespace(), ".")
	if !found {
		return fieldError.Field()
	}
	return path
}

func friendlyMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Minimum %s characters", fieldError.Param())
		}
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	case "max":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Maximum %s characters", fieldError.Param())
		}
		return fmt.Sprintf("Must be at most %s", fieldError.Param())
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
	case "eqfield":
		return fmt.Sprintf("Must match %s", fieldError.Param())
	case "money":
		return fmt.Sprintf("Must be a price between 0 and %s with at most 2 decimals", MaxPrice.StringFixed(2))
	default:
		return "Is invalid"
	}
}
