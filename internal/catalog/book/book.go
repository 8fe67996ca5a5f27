// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements the localized catalog: listing, lookup and
owner-scoped management of books.

# Read Pipeline

Every read goes through the same three steps:

	ParseListQuery → Repository (BuildListSQL + BuildCountSQL) → Book.Localize

so the public list, the "my books" list and the localized variants only
differ in the author filter and the response message.
*/
package book

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/maktaba/internal/catalog/category"
	"github.com/taibuivan/maktaba/internal/catalog/tag"
	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/internal/platform/locale"
	"github.com/taibuivan/maktaba/pkg/pointer"
	"github.com/taibuivan/maktaba/pkg/slice"
)

// Client-facing messages.
const (
	MessageNotFound        = "Book not found"
	MessageEditForbidden   = "You can only edit your own books"
	MessageDeleteForbidden = "You can only delete your own books"
)

// Price is a non-negative amount rendered with exactly two fraction digits.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal amount.
func NewPrice(amount decimal.Decimal) Price {
	return Price{Decimal: amount}
}

// MarshalJSON renders the price as a string, e.g. "19.90".
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringFixed(2))
}

// Author is the public view of the user who listed a book.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Book is a catalog entry with its author, category and tags joined in.
type Book struct {
	ID                      string     `json:"id"`
	Title                   string     `json:"title"`
	Description             *string    `json:"description"`
	TitleTranslations       *i18n.Text `json:"titleTranslations"`
	DescriptionTranslations *i18n.Text `json:"descriptionTranslations"`
	Price                   Price      `json:"price"`
	Thumbnail               *string    `json:"thumbnail"`
	AuthorID                string     `json:"authorId"`
	CategoryID              string     `json:"categoryId"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`

	Author   *Author            `json:"author,omitempty"`
	Category *category.Category `json:"category,omitempty"`
	Tags     []tag.Tag          `json:"tags"`
}

// Localize returns a copy of the book projected onto l. Nested category and
// tags are projected too; translation objects are kept as they are.
func (b Book) Localize(l locale.Locale) Book {
	b.Title = i18n.Resolve(b.TitleTranslations, l, b.Title, "")
	b.Description = i18n.ResolvePtr(b.DescriptionTranslations, l, b.Description)

	if b.Category != nil {
		b.Category = pointer.To(b.Category.Localize(l))
	}

	if b.Tags != nil {
		b.Tags = tag.LocalizeAll(b.Tags, l)
	}

	return b
}

// LocalizeAll projects every book in the slice.
func LocalizeAll(books []*Book, l locale.Locale) []Book {
	return slice.Map(books, func(b *Book) Book { return b.Localize(l) })
}

// # Writes

// Patch lists the columns an update writes. Nil fields are left untouched;
// a non-nil TagIDs replaces the whole tag set (an empty slice clears it).
type Patch struct {
	Title                   *string
	Description             *string
	TitleTranslations       *i18n.Text
	DescriptionTranslations *i18n.Text
	Price                   *decimal.Decimal
	Thumbnail               *string
	CategoryID              *string
	TagIDs                  *[]string
}

// CreateRequest is the body of POST /books/my and POST /books/multilingual.
//
// The per-language fields are only read by the multilingual route.
type CreateRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=255"`
	Description string           `json:"description" validate:"required,min=1,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required,money"`
	CategoryID  string           `json:"categoryId" validate:"required,uuid"`
	Thumbnail   *string          `json:"thumbnail,omitempty" validate:"omitnil,url,max=500"`
	Tags        []string         `json:"tags,omitempty" validate:"omitempty,dive,uuid"`

	TitleEn       *string `json:"titleEn,omitempty" validate:"omitnil,max=255"`
	TitleAr       *string `json:"titleAr,omitempty" validate:"omitnil,max=255"`
	DescriptionEn *string `json:"descriptionEn,omitempty" validate:"omitnil,max=2000"`
	DescriptionAr *string `json:"descriptionAr,omitempty" validate:"omitnil,max=2000"`
}

// UpdateRequest is the body of PUT /books/my/{id} and PUT /books/multilingual/{id}.
// Every field is optional.
type UpdateRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitnil,min=1,max=2000"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitnil,money"`
	CategoryID  *string          `json:"categoryId,omitempty" validate:"omitnil,uuid"`
	Thumbnail   *string          `json:"thumbnail,omitempty" validate:"omitnil,url,max=500"`
	Tags        *[]string        `json:"tags,omitempty" validate:"omitnil,dive,uuid"`

	TitleEn       *string `json:"titleEn,omitempty" validate:"omitnil,max=255"`
	TitleAr       *string `json:"titleAr,omitempty" validate:"omitnil,max=255"`
	DescriptionEn *string `json:"descriptionEn,omitempty" validate:"omitnil,max=2000"`
	DescriptionAr *string `json:"descriptionAr,omitempty" validate:"omitnil,max=2000"`
}

// withoutTranslations drops the per-language fields for the plain routes.
func (r CreateRequest) withoutTranslations() CreateRequest {
	r.TitleEn, r.TitleAr, r.DescriptionEn, r.DescriptionAr = nil, nil, nil, nil
	return r
}

func (r UpdateRequest) withoutTranslations() UpdateRequest {
	r.TitleEn, r.TitleAr, r.DescriptionEn, r.DescriptionAr = nil, nil, nil, nil
	return r
}
