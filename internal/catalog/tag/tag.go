// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag manages the free-form labels attached to books.
package tag

import (
	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/pkg/slice"
)

// Tag is a label shared by many books.
type Tag struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	NameTranslations *i18n.Text `json:"nameTranslations"`
}

// Localize returns a copy of the tag with Name projected onto l.
func (t Tag) Localize(l locale.Locale) Tag {
	t.Name = i18n.Resolve(t.NameTranslations, l, t.Name, "")
	return t
}

// LocalizeAll projects every tag in the slice.
func LocalizeAll(tags []Tag, l locale.Locale) []Tag {
	return slice.Map(tags, func(t Tag) Tag { return t.Localize(l) })
}

// CreateRequest is the body of POST /books/tags.
type CreateRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=255"`
	NameEn *string `json:"nameEn,omitempty" validate:"omitnil,max=255"`
	NameAr *string `json:"nameAr,omitempty" validate:"omitnil,max=255"`
}
