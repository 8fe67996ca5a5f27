// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query holds small helpers for building parameterised SQL.
package query

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so term matches literally under the
// default backslash escape character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Contains returns an ILIKE pattern matching term anywhere in the column.
//
//	Contains("50%_off") → `%50\%\_off%`
func Contains(term string) string {
	return "%" + EscapeLike(term) + "%"
}
