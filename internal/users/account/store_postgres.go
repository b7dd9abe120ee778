// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

const resourceUser = "User"

// PostgresRepository implements [Repository] on the yamdb.account table.
type PostgresRepository struct {
	pool  *pgxpool.Pool
	users *auth.PostgresUserRepository
}

// NewPostgresRepository creates a new Postgres implementation for account management.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, users: auth.NewUserRepository(pool)}
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	return repository.users.FindByID(context, id)
}

// FindByUsername retrieves a user record by username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.users.FindByUsername(context, username)
}

// Create inserts a new account.
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	return repository.users.Create(context, user)
}

/*
List returns one page of users ordered by username.

The total is computed with a window function so a single round trip serves
both the page and the pagination metadata.
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER ()
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		auth.UserColumns, schema.Account.Table,
		schema.Account.Username, schema.Account.Username,
	)

	rows, err := repository.pool.Query(context, query, filter.Search, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, filter.Page.Limit)
	total := 0
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Bio,
			&user.Role,
			&user.Superuser,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, resourceUser)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser)
	}

	return users, total, nil
}

// Update persists the mutable profile fields and refreshes updated_at.
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1`,
		schema.Account.Table,
		schema.Account.Username, schema.Account.Email, schema.Account.FirstName,
		schema.Account.LastName, schema.Account.Bio, schema.Account.Role,
		schema.Account.UpdatedAt,
		schema.Account.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
	)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}

// Delete removes the account row; reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Account.Table, schema.Account.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}
