// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package locale resolves the display language of a request.
//
// # Resolution Order
//
//  1. The explicit "lang" query value, when it names a supported locale.
//  2. The first supported primary subtag of the Accept-Language header,
//     in header order (quality values are ignored).
//  3. [Default].
//
// Resolution never fails. Malformed header entries simply do not match.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported display language code.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"

	// Default is used whenever resolution finds nothing supported.
	Default = English
)

// Supported lists every locale the catalog stores translations for.
var Supported = []Locale{English, Arabic}

// tags maps each locale to its BCP 47 tag.
var tags = map[Locale]language.Tag{
	English: language.English,
	Arabic:  language.Arabic,
}

// IsSupported reports whether value names a supported locale exactly.
func IsSupported(value string) bool {
	_, ok := tags[Locale(value)]
	return ok
}

// Tag returns the BCP 47 language tag for the locale.
func (l Locale) Tag() language.Tag {
	if tag, ok := tags[l]; ok {
		return tag
	}
	return tags[Default]
}

// String implements [fmt.Stringer].
func (l Locale) String() string {
	return string(l)
}

// Resolve picks the request locale from the query value and the
// Accept-Language header.
func Resolve(queryValue, acceptLanguage string) Locale {
	if IsSupported(queryValue) {
		return Locale(queryValue)
	}

	if acceptLanguage != "" {
		for _, entry := range strings.Split(acceptLanguage, ",") {
			if candidate := primarySubtag(entry); IsSupported(candidate) {
				return Locale(candidate)
			}
		}
	}

	return Default
}

// primarySubtag strips the quality suffix and region from one header entry.
//
//	" en-US;q=0.8" → "en"
func primarySubtag(entry string) string {
	if i := strings.IndexByte(entry, ';'); i >= 0 {
		entry = entry[:i]
	}
	entry = strings.ToLower(strings.TrimSpace(entry))
	if i := strings.IndexByte(entry, '-'); i >= 0 {
		entry = entry[:i]
	}
	return entry
}
