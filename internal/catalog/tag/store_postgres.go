package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/dberr"
)

// MessageNameTaken is returned when a tag name is already in use.
const MessageNameTaken = "Tag name already exists"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC, %s ASC`,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.NameTranslations,
		schema.Tag.Table, schema.Tag.Name, schema.Tag.ID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		t := Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.NameTranslations); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, dberr.Wrap(rows.Err(), "list_tags")
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.Tag.Table, schema.Tag.ID, schema.Tag.Name, schema.Tag.NameTranslations)

	_, err := repository.db.Exec(context, query, tag.ID, tag.Name, tag.NameTranslations)
	return dberr.Wrap(err, "create_tag",
		dberr.Unique(func() *apperr.AppError { return apperr.Conflict(MessageNameTaken) }))
}
