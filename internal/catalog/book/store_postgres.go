package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/maktaba/internal/catalog/category"
	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/dberr"
	"github.com/taibuivan/maktaba/internal/platform/postgres"
	"github.com/taibuivan/maktaba/internal/platform/validate"
)

// MessageUnknownReference is returned when a write names a category or tag
// that does not exist.
const MessageUnknownReference = "Category or tag does not exist"

var (
	notFound     = dberr.NotFound("Book")
	unknownLinks = dberr.ForeignKey(func() *apperr.AppError {
		return validate.RequiredError("categoryId", MessageUnknownReference)
	})
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook reads one row produced by selectColumns.
func scanBook(row rowScanner) (*Book, error) {
	b := &Book{Author: &Author{}, Category: &category.Category{}}
	var price string

	err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.TitleTranslations, &b.DescriptionTranslations,
		&price, &b.Thumbnail, &b.AuthorID, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt,
		&b.Author.ID, &b.Author.Username, &b.Author.FirstName, &b.Author.LastName,
		&b.Category.ID, &b.Category.Name, &b.Category.Description,
		&b.Category.NameTranslations, &b.Category.DescriptionTranslations, &b.Category.CreatedAt,
		&b.Tags,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	b.Price = NewPrice(amount)

	return b, nil
}

func (repository *PostgresRepository) List(context context.Context, q ListQuery) ([]*Book, int, error) {
	countSQL, countArgs := BuildCountSQL(q)

	var total int
	if err := repository.pool.QueryRow(context, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	listSQL, listArgs := BuildListSQL(q)

	rows, err := repository.pool.Query(context, listSQL, listArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := make([]*Book, 0, q.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}

	return books, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	b, err := scanBook(repository.pool.QueryRow(context, detailSQL, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_by_id", notFound)
	}
	return b, nil
}

func (repository *PostgresRepository) FindAuthorID(context context.Context, id string) (string, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.Book.AuthorID, schema.Book.Table, schema.Book.ID)

	var authorID string
	if err := repository.pool.QueryRow(context, sql, id).Scan(&authorID); err != nil {
		return "", dberr.Wrap(err, "get_book_author", notFound)
	}
	return authorID, nil
}

func (repository *PostgresRepository) Create(context context.Context, book *Book, tagIDs []string) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.Book.Table,
		schema.Book.ID, schema.Book.Title, schema.Book.Description,
		schema.Book.TitleTranslations, schema.Book.DescriptionTranslations,
		schema.Book.Price, schema.Book.Thumbnail, schema.Book.AuthorID, schema.Book.CategoryID,
		schema.Book.CreatedAt, schema.Book.UpdatedAt,
	)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, sql,
			book.ID, book.Title, book.Description,
			book.TitleTranslations, book.DescriptionTranslations,
			book.Price.StringFixed(2), book.Thumbnail, book.AuthorID, book.CategoryID,
		).Scan(&book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			return err
		}

		return updateJunction(context, transaction, book.ID, tagIDs)
	})

	return dberr.Wrap(err, "create_book", unknownLinks)
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) error {
	var queryBuilder strings.Builder
	var assignments []string
	var args []any
	argID := 1

	set := func(column string, value any) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Title != nil {
		set(schema.Book.Title, *patch.Title)
	}
	if patch.Description != nil {
		set(schema.Book.Description, *patch.Description)
	}
	if patch.TitleTranslations != nil {
		set(schema.Book.TitleTranslations, patch.TitleTranslations)
	}
	if patch.DescriptionTranslations != nil {
		set(schema.Book.DescriptionTranslations, patch.DescriptionTranslations)
	}
	if patch.Price != nil {
		set(schema.Book.Price, patch.Price.StringFixed(2))
	}
	if patch.Thumbnail != nil {
		set(schema.Book.Thumbnail, *patch.Thumbnail)
	}
	if patch.CategoryID != nil {
		set(schema.Book.CategoryID, *patch.CategoryID)
	}

	// Every write advances updated_at, even a tags-only one
	set(schema.Book.UpdatedAt, time.Now().UTC())

	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s", schema.Book.Table, strings.Join(assignments, ", ")))
	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d", schema.Book.ID, argID))
	args = append(args, id)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		response, err := transaction.Exec(context, queryBuilder.String(), args...)
		if err != nil {
			return err
		}
		if response.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if patch.TagIDs == nil {
			return nil
		}
		return updateJunction(context, transaction, id, *patch.TagIDs)
	})

	return dberr.Wrap(err, "update_book", notFound, unknownLinks)
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Book.Table, schema.Book.ID)

	response, err := repository.pool.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

/*
updateJunction replaces the tag links of a book.

The existing rows are cleared, then every tag id is inserted in a single
pgx batch. Duplicate ids in tagIDs collapse to one link.
*/
func updateJunction(context context.Context, transaction pgx.Tx, bookID string, tagIDs []string) error {
	deleteSQL := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BookTag.Table, schema.BookTag.BookID)
	if _, err := transaction.Exec(context, deleteSQL, bookID); err != nil {
		return fmt.Errorf("clear %s: %w", schema.BookTag.Table, err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insertSQL := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.BookTag.Table, schema.BookTag.BookID, schema.BookTag.TagID)

	batch := &pgx.Batch{}
	for _, tagID := range tagIDs {
		batch.Queue(insertSQL, bookID, tagID)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("link %s: %w", schema.BookTag.Table, err)
	}
	return nil
}
