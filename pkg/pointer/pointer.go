// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers to values for optional fields.
package pointer

// To returns a pointer to a copy of v.
//
//	UpdateRequest{Title: pointer.To("Dune")}
func To[T any](v T) *T {
	return &v
}
