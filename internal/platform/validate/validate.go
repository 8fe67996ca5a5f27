// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides request validation that ends in one
// VALIDATION_ERROR [apperr.AppError].
//
// # Architecture
//
// JSON bodies are checked with struct tags through [Struct]. Query strings
// and rules that span fields go through the fluent [Validator], which keeps
// collecting so the client sees every problem at once.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/pkg/uuid"
)

// MessageFailed is the top-level message of every body validation error.
const MessageFailed = "Validation failed"

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level errors.
//
// Not safe for concurrent use; create one per request.
type Validator struct {
	errs []apperr.FieldError
}

// MaxLen fails if value has more than max characters (runes, not bytes).
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Text fails if value is not valid UTF-8 or carries a NUL byte, neither of
// which a Postgres text column accepts.
func (v *Validator) Text(field, value string) *Validator {
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		v.add(field, "Must be valid text")
	}
	return v
}

// UUID fails unless value is a hyphenated UUID.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.IsValid(value) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if value is not one of allowed. Matching is case-sensitive.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom records message against field when failed is true.
//
//	v.Custom("minPrice", amount.IsNegative(), "Must be a non-negative number")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR carrying every collected detail, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(MessageFailed, v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Details returns the collected field errors, for callers that choose their
// own top-level message.
func (v *Validator) Details() []apperr.FieldError {
	return v.errs
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError builds a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(MessageFailed, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
