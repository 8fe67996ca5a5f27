// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package i18n holds the parallel-language text model shared by books,
categories and tags.

# Read Side

[Resolve] projects a [Text] onto one locale with the fallback chain:

	text[locale] → text[en] → canonical → fallback

# Write Side

[Merge] builds a [Text] from optional per-language inputs, filling any
missing language with the canonical value.
*/
package i18n

import (
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/pkg/pointer"
)

// Text carries the same string in every supported locale.
//
// When a Text exists both keys are serialized, even if empty.
type Text struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Get returns the value stored for the locale, or "" for unknown locales.
func (t *Text) Get(l locale.Locale) string {
	if t == nil {
		return ""
	}
	switch l {
	case locale.English:
		return t.En
	case locale.Arabic:
		return t.Ar
	default:
		return ""
	}
}

// Resolve returns the display string for l.
func Resolve(text *Text, l locale.Locale, canonical, fallback string) string {
	if value := text.Get(l); value != "" {
		return value
	}
	if value := text.Get(locale.Default); value != "" {
		return value
	}
	if canonical != "" {
		return canonical
	}
	return fallback
}

// ResolvePtr is [Resolve] for nullable canonical fields. It returns nil only
// when there is nothing to show and the canonical value was nil.
func ResolvePtr(text *Text, l locale.Locale, canonical *string) *string {
	value := Resolve(text, l, deref(canonical), "")
	if value == "" && canonical == nil {
		return nil
	}
	return pointer.To(value)
}

// Merge builds the stored representation of a translatable field.
//
// The result is nil unless en or ar is non-empty, meaning "leave the stored
// translations untouched". Each missing language falls back to canonical,
// then to "".
func Merge(canonical, en, ar *string) *Text {
	if !nonEmpty(en) && !nonEmpty(ar) {
		return nil
	}
	return &Text{
		En: firstNonEmpty(en, canonical),
		Ar: firstNonEmpty(ar, canonical),
	}
}

func nonEmpty(value *string) bool {
	return value != nil && *value != ""
}

func firstNonEmpty(values ...*string) string {
	for _, value := range values {
		if nonEmpty(value) {
			return *value
		}
	}
	return ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
