// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/dberr"
	"github.com/taibuivan/maktaba/internal/users/auth"
	"github.com/taibuivan/maktaba/pkg/query"
)

// PostgresAccountRepository implements [AccountRepository].
//
// Single-account reads and profile writes are shared with the auth store.
type PostgresAccountRepository struct {
	*auth.PostgresUserRepository
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		PostgresUserRepository: auth.NewUserRepository(pool),
		pool:                   pool,
	}
}

// searchColumns are matched by the directory search.
var searchColumns = []string{schema.User.Username, schema.User.Email, schema.User.FirstName, schema.User.LastName}

func (repository *PostgresAccountRepository) List(context context.Context, offset, limit int, search string) ([]*auth.User, int, error) {
	var where string
	var args []any

	if search != "" {
		conditions := make([]string, len(searchColumns))
		for i, column := range searchColumns {
			conditions[i] = fmt.Sprintf("%s ILIKE $1", column)
		}
		where = " WHERE " + strings.Join(conditions, " OR ")
		args = append(args, query.Contains(search))
	}

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", schema.User.Table, where)
	if err := repository.pool.QueryRow(context, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s FROM %s%s",
		schema.User.ID, schema.User.Username, schema.User.Email,
		schema.User.FirstName, schema.User.LastName, schema.User.CreatedAt, schema.User.UpdatedAt,
		schema.User.Table, where,
	))
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d",
		schema.User.CreatedAt, schema.User.ID, len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	for rows.Next() {
		u := &auth.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	return users, total, nil
}

func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.User.Table, schema.User.ID)

	response, err := repository.pool.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (repository *PostgresAccountRepository) CountBooks(context context.Context, id string) (int, error) {
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.Book.Table, schema.Book.AuthorID)

	var total int
	if err := repository.pool.QueryRow(context, sql, id).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_user_books")
	}
	return total, nil
}
