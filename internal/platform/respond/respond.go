// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Every response (Success or Error) shares one JSON envelope:
//
//	{"success": true, "message": "...", "data": ..., "pagination": {...}, "locale": "ar"}
//	{"success": false, "message": "...", "code": "NOT_FOUND", "errors": [...]}
//
// Optional members are omitted when empty.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/ctxutil"
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/pkg/pagination"
)

// Envelope is the JSON envelope for successful responses.
type Envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Locale     string           `json:"locale,omitempty"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// Option decorates a success envelope.
type Option func(*Envelope)

// WithLocale records the locale the data was projected to.
func WithLocale(l locale.Locale) Option {
	return func(envelope *Envelope) { envelope.Locale = l.String() }
}

// WithPagination attaches list metadata.
func WithPagination(meta pagination.Meta) Option {
	return func(envelope *Envelope) { envelope.Pagination = &meta }
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, message string, data interface{}, options ...Option) {
	JSON(writer, http.StatusOK, build(message, data, options))
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, message string, data interface{}, options ...Option) {
	JSON(writer, http.StatusCreated, build(message, data, options))
}

// Paginated writes a 200 OK response with list data and a pagination block.
func Paginated(writer http.ResponseWriter, message string, data interface{}, metadata pagination.Meta, options ...Option) {
	OK(writer, message, data, append(options, WithPagination(metadata))...)
}

// Message writes a 200 OK response carrying only a message.
func Message(writer http.ResponseWriter, message string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: message})
}

func build(message string, data interface{}, options []Option) Envelope {
	envelope := Envelope{Success: true, Message: message, Data: data}
	for _, option := range options {
		option(&envelope)
	}
	return envelope
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Message: appError.Message,
		Code:    appError.Code,
		Errors:  appError.Details,
	})
}
