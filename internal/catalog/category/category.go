// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category manages the book categories of the catalog.
//
// A category cannot be removed while any book still references it.
package category

import (
	"time"

	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/internal/platform/locale"
)

// Client-facing messages.
const (
	MessageNotFound  = "Category not found"
	MessageNameTaken = "Category name already exists"
	MessageHasBooks  = "Cannot delete category that has books. Please reassign or delete books first."
)

// Category groups books by subject.
type Category struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Description             *string    `json:"description"`
	NameTranslations        *i18n.Text `json:"nameTranslations"`
	DescriptionTranslations *i18n.Text `json:"descriptionTranslations"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// Localize returns a copy with Name and Description projected onto l.
// The translation objects are kept so clients can still switch language.
func (c Category) Localize(l locale.Locale) Category {
	c.Name = i18n.Resolve(c.NameTranslations, l, c.Name, "")
	c.Description = i18n.ResolvePtr(c.DescriptionTranslations, l, c.Description)
	return c
}

// Patch lists the columns an update writes. Nil fields are left untouched.
type Patch struct {
	Name                    *string
	Description             *string
	NameTranslations        *i18n.Text
	DescriptionTranslations *i18n.Text
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.NameTranslations == nil && p.DescriptionTranslations == nil
}

// # Requests

// CreateRequest is the body of POST /categories.
type CreateRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	Description   *string `json:"description,omitempty" validate:"omitnil,max=1000"`
	NameEn        *string `json:"nameEn,omitempty" validate:"omitnil,max=255"`
	NameAr        *string `json:"nameAr,omitempty" validate:"omitnil,max=255"`
	DescriptionEn *string `json:"descriptionEn,omitempty" validate:"omitnil,max=1000"`
	DescriptionAr *string `json:"descriptionAr,omitempty" validate:"omitnil,max=1000"`
}

// UpdateRequest is the body of PUT /categories/{id}. Every field is optional.
type UpdateRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Description   *string `json:"description,omitempty" validate:"omitnil,max=1000"`
	NameEn        *string `json:"nameEn,omitempty" validate:"omitnil,max=255"`
	NameAr        *string `json:"nameAr,omitempty" validate:"omitnil,max=255"`
	DescriptionEn *string `json:"descriptionEn,omitempty" validate:"omitnil,max=1000"`
	DescriptionAr *string `json:"descriptionAr,omitempty" validate:"omitnil,max=1000"`
}
