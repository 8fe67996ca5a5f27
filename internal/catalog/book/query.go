// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/validate"
	"github.com/taibuivan/maktaba/pkg/pagination"
	"github.com/taibuivan/maktaba/pkg/pointer"
	"github.com/taibuivan/maktaba/pkg/query"
)

// Sort fields and directions accepted by the list endpoints.
const (
	SortByTitle     = "title"
	SortByPrice     = "price"
	SortByCreatedAt = "createdAt"

	SortAsc  = "asc"
	SortDesc = "desc"

	maxSearchLength = 255
)

// MessageInvalidQuery is returned when list parameters fail validation.
const MessageInvalidQuery = "Invalid query parameters"

// Table aliases used by every book read.
const (
	aliasBook     = "b"
	aliasAuthor   = "u"
	aliasCategory = "c"
)

// sortColumns maps the public sort field to its column.
var sortColumns = map[string]string{
	SortByTitle:     col(aliasBook, schema.Book.Title),
	SortByPrice:     col(aliasBook, schema.Book.Price),
	SortByCreatedAt: col(aliasBook, schema.Book.CreatedAt),
}

// ListQuery is the parsed form of the list parameters.
//
// AuthorID is never read from the URL; the "my books" routes set it from
// the session.
type ListQuery struct {
	pagination.Params

	Search     string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	SortOrder  string
	AuthorID   string
}

/*
ParseListQuery validates the list parameters of GET /books and its variants.

Absent values take their defaults (page 1, limit 10, title ascending).
Every problem is reported, not just the first.

Returns:
  - error: VALIDATION_ERROR "Invalid query parameters" with field details
*/
func ParseListQuery(values url.Values) (ListQuery, error) {
	params, problems := pagination.Parse(values)

	v := &validate.Validator{}
	for _, problem := range problems {
		v.Custom(problem.Field, true, problem.Message)
	}

	q := ListQuery{
		Params:     params,
		Search:     strings.TrimSpace(values.Get(constants.QuerySearch)),
		CategoryID: values.Get("categoryId"),
		SortBy:     SortByTitle,
		SortOrder:  SortAsc,
	}

	v.Text("search", q.Search).MaxLen("search", q.Search, maxSearchLength)

	if q.CategoryID != "" {
		v.UUID("categoryId", q.CategoryID)
	}

	q.MinPrice = parsePrice(v, values, "minPrice")
	q.MaxPrice = parsePrice(v, values, "maxPrice")

	if sortBy := values.Get("sortBy"); sortBy != "" {
		v.OneOf("sortBy", sortBy, SortByTitle, SortByPrice, SortByCreatedAt)
		q.SortBy = sortBy
	}

	if sortOrder := values.Get("sortOrder"); sortOrder != "" {
		v.OneOf("sortOrder", sortOrder, SortAsc, SortDesc)
		q.SortOrder = sortOrder
	}

	if v.HasErrors() {
		return ListQuery{}, apperr.ValidationError(MessageInvalidQuery, v.Details()...)
	}

	return q, nil
}

func parsePrice(v *validate.Validator, values url.Values, key string) *decimal.Decimal {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		v.Custom(key, true, "Must be a non-negative number")
		return nil
	}
	return pointer.To(amount)
}

// # SQL

// selectColumns lists the book, author and category columns followed by the
// aggregated tags, in the order scanBook expects.
var selectColumns = strings.Join([]string{
	col(aliasBook, schema.Book.ID),
	col(aliasBook, schema.Book.Title),
	col(aliasBook, schema.Book.Description),
	col(aliasBook, schema.Book.TitleTranslations),
	col(aliasBook, schema.Book.DescriptionTranslations),
	col(aliasBook, schema.Book.Price) + "::text",
	col(aliasBook, schema.Book.Thumbnail),
	col(aliasBook, schema.Book.AuthorID),
	col(aliasBook, schema.Book.CategoryID),
	col(aliasBook, schema.Book.CreatedAt),
	col(aliasBook, schema.Book.UpdatedAt),

	col(aliasAuthor, schema.User.ID),
	col(aliasAuthor, schema.User.Username),
	col(aliasAuthor, schema.User.FirstName),
	col(aliasAuthor, schema.User.LastName),

	col(aliasCategory, schema.Category.ID),
	col(aliasCategory, schema.Category.Name),
	col(aliasCategory, schema.Category.Description),
	col(aliasCategory, schema.Category.NameTranslations),
	col(aliasCategory, schema.Category.DescriptionTranslations),
	col(aliasCategory, schema.Category.CreatedAt),

	tagsSubquery,
}, ", ")

// tagsSubquery aggregates the tags of the outer book into a JSON array.
var tagsSubquery = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('id', t.%s, 'name', t.%s, 'nameTranslations', t.%s) ORDER BY t.%s)
		FROM %s bt
		JOIN %s t ON t.%s = bt.%s
		WHERE bt.%s = %s
	), '[]'::json)`,
	schema.Tag.ID, schema.Tag.Name, schema.Tag.NameTranslations, schema.Tag.Name,
	schema.BookTag.Table,
	schema.Tag.Table, schema.Tag.ID, schema.BookTag.TagID,
	schema.BookTag.BookID, col(aliasBook, schema.Book.ID),
)

// fromClause joins the author and category of every book.
var fromClause = fmt.Sprintf(`FROM %s %s
	JOIN %s %s ON %s = %s
	JOIN %s %s ON %s = %s`,
	schema.Book.Table, aliasBook,
	schema.User.Table, aliasAuthor, col(aliasAuthor, schema.User.ID), col(aliasBook, schema.Book.AuthorID),
	schema.Category.Table, aliasCategory, col(aliasCategory, schema.Category.ID), col(aliasBook, schema.Book.CategoryID),
)

/*
BuildListSQL returns the page query for q and its arguments.

Rows are ordered by the sort field, then by id so that pages are stable
when the sort field ties.
*/
func BuildListSQL(q ListQuery) (string, []any) {
	var queryBuilder strings.Builder

	where, args := buildWhere(q)
	argID := len(args) + 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s %s%s", selectColumns, fromClause, where))

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[SortByTitle]
	}
	direction := "ASC"
	if q.SortOrder == SortDesc {
		direction = "DESC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, %s %s", column, direction, col(aliasBook, schema.Book.ID), direction))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, q.Limit, q.Offset())

	return queryBuilder.String(), args
}

// BuildCountSQL returns the total-count query for q. It shares the WHERE
// predicate and arguments of [BuildListSQL].
func BuildCountSQL(q ListQuery) (string, []any) {
	where, args := buildWhere(q)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s %s%s", schema.Book.Table, aliasBook, where), args
}

// detailSQL selects one book by id with the same shape as a list row.
var detailSQL = fmt.Sprintf("SELECT %s %s WHERE %s = $1", selectColumns, fromClause, col(aliasBook, schema.Book.ID))

func buildWhere(q ListQuery) (string, []any) {
	var conditions []string
	var args []any
	argID := 1

	add := func(condition string, value any) {
		conditions = append(conditions, fmt.Sprintf(condition, argID))
		args = append(args, value)
		argID++
	}

	if q.Search != "" {
		add(col(aliasBook, schema.Book.Title)+" ILIKE $%d", query.Contains(q.Search))
	}
	if q.CategoryID != "" {
		add(col(aliasBook, schema.Book.CategoryID)+" = $%d", q.CategoryID)
	}
	if q.MinPrice != nil {
		add(col(aliasBook, schema.Book.Price)+" >= $%d", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		add(col(aliasBook, schema.Book.Price)+" <= $%d", q.MaxPrice.String())
	}
	if q.AuthorID != "" {
		add(col(aliasBook, schema.Book.AuthorID)+" = $%d", q.AuthorID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func col(alias, column string) string {
	return alias + "." + column
}
