// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Classification:
//
//   - [pgx.ErrNoRows] becomes NotFound.
//   - SQLSTATE 23505 (unique_violation) becomes Conflict.
//   - SQLSTATE 23503 (foreign_key_violation) becomes a validation failure.
//   - Anything else becomes Internal, with the cause kept for logging.
//
// Call sites override the default client message per class with [Option]s.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
)

type mapping struct {
	notFound   func() *apperr.AppError
	unique     func() *apperr.AppError
	foreignKey func() *apperr.AppError
}

// Option overrides the application error produced for one error class.
type Option func(*mapping)

// NotFound sets the error returned when no row matched.
func NotFound(resource string) Option {
	return func(m *mapping) { m.notFound = func() *apperr.AppError { return apperr.NotFound(resource) } }
}

// Unique sets the error returned on a unique constraint violation.
func Unique(appError func() *apperr.AppError) Option {
	return func(m *mapping) { m.unique = appError }
}

// ForeignKey sets the error returned on a foreign key violation.
func ForeignKey(appError func() *apperr.AppError) Option {
	return func(m *mapping) { m.foreignKey = appError }
}

func defaults() *mapping {
	return &mapping{
		notFound: func() *apperr.AppError { return apperr.NotFound("Resource") },
		unique:   func() *apperr.AppError { return apperr.Conflict("Resource already exists") },
		foreignKey: func() *apperr.AppError {
			return apperr.ValidationError("Referenced resource does not exist")
		},
	}
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string, options ...Option) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	m := defaults()
	for _, option := range options {
		option(m)
	}

	cause := fmt.Errorf("%s: %w", action, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return m.notFound().WithCause(cause)
	}

	switch code(err) {
	case pgerrcode.UniqueViolation:
		return m.unique().WithCause(cause)
	case pgerrcode.ForeignKeyViolation:
		return m.foreignKey().WithCause(cause)
	}

	return apperr.Internal(cause)
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return code(err) == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return code(err) == pgerrcode.ForeignKeyViolation
}

func code(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code
	}
	return ""
}
