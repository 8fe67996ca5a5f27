// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
// Malformed or out-of-range values are reported, never silently clamped.
package pagination

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage keeps (page-1)*limit well inside an int64 OFFSET.
	MaxPage = math.MaxInt32
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is the ceiling of total/limit, so HasNext holds exactly when
// page*limit < total.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ParamError describes one rejected pagination parameter.
type ParamError struct {
	Field   string
	Message string
}

func (e ParamError) Error() string { return e.Field + ": " + e.Message }

// Parse reads "page" and "limit" from query values.
//
// Absent values take [DefaultPage] and [DefaultLimit]. Every malformed value
// is reported in the returned slice.
func Parse(values url.Values) (Params, []ParamError) {
	var problems []ParamError

	page, problem := parseIntParam(values, "page", DefaultPage, 1, MaxPage)
	if problem != nil {
		problems = append(problems, *problem)
	}

	limit, problem := parseIntParam(values, "limit", DefaultLimit, 1, MaxLimit)
	if problem != nil {
		problems = append(problems, *problem)
	}

	return Params{Page: page, Limit: limit}, problems
}

// FromRequest is [Parse] over the request's query string.
func FromRequest(r *http.Request) (Params, []ParamError) {
	return Parse(r.URL.Query())
}

// parseIntParam parses a single integer query parameter within [lowest, highest].
// A highest of 0 means unbounded.
func parseIntParam(values url.Values, key string, defaultVal, lowest, highest int) (int, *ParamError) {
	raw := values.Get(key)
	if raw == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal, &ParamError{Field: key, Message: fmt.Sprintf("%s must be an integer", key)}
	}

	if n < lowest {
		return defaultVal, &ParamError{Field: key, Message: fmt.Sprintf("%s must be at least %d", key, lowest)}
	}

	if highest > 0 && n > highest {
		return defaultVal, &ParamError{Field: key, Message: fmt.Sprintf("%s must be at most %d", key, highest)}
	}

	return n, nil
}
