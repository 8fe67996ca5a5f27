// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/database/schema"
	"github.com/taibuivan/maktaba/internal/platform/dberr"
)

var (
	userNotFound = dberr.NotFound("User")
	emailTaken   = dberr.Unique(func() *apperr.AppError { return apperr.Conflict(MessageEmailTaken) })
)

var userColumns = strings.Join(schema.User.Columns(), ", ")

// PostgresUserRepository implements [UserRepository] on the users table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, condition string, args ...any) (*User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, schema.User.Table, condition)

	user, err := scanUser(repository.pool.QueryRow(context, sql, args...))
	if err != nil {
		return nil, dberr.Wrap(err, action, userNotFound)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "get_user_by_id", schema.User.ID+" = $1", id)
}

func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	condition := fmt.Sprintf("%s = $1 OR %s = $1", schema.User.Email, schema.User.Username)
	return repository.findOne(context, "get_user_by_login", condition, login)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "get_user_by_email", schema.User.Email+" = $1", email)
}

func (repository *PostgresUserRepository) Taken(context context.Context, email, username string) (bool, bool, error) {
	sql := fmt.Sprintf(`
		SELECT
			EXISTS (SELECT 1 FROM %[1]s WHERE %[2]s = $1),
			EXISTS (SELECT 1 FROM %[1]s WHERE %[3]s = $2)`,
		schema.User.Table, schema.User.Email, schema.User.Username,
	)

	var emailExists, usernameExists bool
	if err := repository.pool.QueryRow(context, sql, email, username).Scan(&emailExists, &usernameExists); err != nil {
		return false, false, dberr.Wrap(err, "check_user_identity")
	}
	return emailExists, usernameExists, nil
}

func (repository *PostgresUserRepository) EmailTakenByOther(context context.Context, email, exceptID string) (bool, error) {
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s::text <> $2)`,
		schema.User.Table, schema.User.Email, schema.User.ID)

	var taken bool
	if err := repository.pool.QueryRow(context, sql, email, exceptID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_user_email")
	}
	return taken, nil
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.User.Table,
		schema.User.ID, schema.User.Username, schema.User.Email,
		schema.User.Password, schema.User.FirstName, schema.User.LastName,
		schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, sql,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	// Concurrent registrations race past the Taken check; the unique index decides
	return dberr.Wrap(err, "create_user", dberr.Unique(func() *apperr.AppError {
		return apperr.Conflict(MessageIdentityTaken)
	}))
}

func (repository *PostgresUserRepository) UpdateProfile(context context.Context, id string, patch ProfilePatch) (*User, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", schema.User.Table, schema.User.UpdatedAt))

	if patch.FirstName != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.User.FirstName, argID))
		args = append(args, *patch.FirstName)
		argID++
	}
	if patch.LastName != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.User.LastName, argID))
		args = append(args, *patch.LastName)
		argID++
	}
	if patch.Email != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.User.Email, argID))
		args = append(args, *patch.Email)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d RETURNING %s", schema.User.ID, argID, userColumns))
	args = append(args, id)

	user, err := scanUser(repository.pool.QueryRow(context, queryBuilder.String(), args...))
	if err != nil {
		return nil, dberr.Wrap(err, "update_user_profile", userNotFound, emailTaken)
	}
	return user, nil
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.User.Table, schema.User.Password, schema.User.UpdatedAt, schema.User.ID)

	response, err := repository.pool.Exec(context, sql, passwordHash, id)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if response.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
