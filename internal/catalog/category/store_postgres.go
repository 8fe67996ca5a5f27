package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/dberr"
	"github.com/taibuivan/maktaba/pkg/query"
)

var (
	notFound  = dberr.NotFound("Category")
	nameTaken = dberr.Unique(func() *apperr.AppError { return apperr.Conflict(MessageNameTaken) })
	hasBooks  = dberr.ForeignKey(func() *apperr.AppError { return apperr.Conflict(MessageHasBooks) })
)

// selectColumns is the column list shared by every category read.
var selectColumns = strings.Join(schema.Category.Columns(), ", ")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.NameTranslations, &c.DescriptionTranslations, &c.CreatedAt)
	return c, err
}

func (repository *PostgresRepository) List(context context.Context, search string) ([]Category, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s`, selectColumns, schema.Category.Table))

	if search != "" {
		queryBuilder.WriteString(fmt.Sprintf(` WHERE %s ILIKE $1`, schema.Category.Name))
		args = append(args, query.Contains(search))
	}

	queryBuilder.WriteString(fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, schema.Category.Name, schema.Category.ID))

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, *c)
	}

	return categories, dberr.Wrap(rows.Err(), "list_categories")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.Category.Table, schema.Category.ID)

	c, err := scanCategory(repository.db.QueryRow(context, sql, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id", notFound)
	}
	return c, nil
}

func (repository *PostgresRepository) NameTaken(context context.Context, name, exceptID string) (bool, error) {
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s::text <> $2)`,
		schema.Category.Table, schema.Category.Name, schema.Category.ID)

	var taken bool
	if err := repository.db.QueryRow(context, sql, name, exceptID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_category_name")
	}
	return taken, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		schema.Category.Table,
		schema.Category.ID, schema.Category.Name, schema.Category.Description,
		schema.Category.NameTranslations, schema.Category.DescriptionTranslations,
		schema.Category.CreatedAt,
	)

	err := repository.db.QueryRow(context, sql,
		category.ID, category.Name, category.Description,
		category.NameTranslations, category.DescriptionTranslations,
	).Scan(&category.CreatedAt)

	return dberr.Wrap(err, "create_category", nameTaken)
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) (*Category, error) {
	var queryBuilder strings.Builder
	var assignments []string
	var args []any
	argID := 1

	set := func(column string, value any) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Name != nil {
		set(schema.Category.Name, *patch.Name)
	}
	if patch.Description != nil {
		set(schema.Category.Description, *patch.Description)
	}
	if patch.NameTranslations != nil {
		set(schema.Category.NameTranslations, patch.NameTranslations)
	}
	if patch.DescriptionTranslations != nil {
		set(schema.Category.DescriptionTranslations, patch.DescriptionTranslations)
	}

	// Nothing to write: return the current row
	if len(assignments) == 0 {
		return repository.FindByID(context, id)
	}

	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s", schema.Category.Table, strings.Join(assignments, ", ")))
	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d RETURNING %s", schema.Category.ID, argID, selectColumns))
	args = append(args, id)

	c, err := scanCategory(repository.db.QueryRow(context, queryBuilder.String(), args...))
	if err != nil {
		return nil, dberr.Wrap(err, "update_category", notFound, nameTaken)
	}
	return c, nil
}

func (repository *PostgresRepository) CountBooks(context context.Context, id string) (int, error) {
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.Book.Table, schema.Book.CategoryID)

	var total int
	if err := repository.db.QueryRow(context, sql, id).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_category_books")
	}
	return total, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Category.Table, schema.Category.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		// The RESTRICT foreign key catches books added after the count check
		return dberr.Wrap(err, "delete_category", hasBooks)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}
