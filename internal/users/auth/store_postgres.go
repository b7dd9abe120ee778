// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// resourceUser names the entity in NOT_FOUND messages.
const resourceUser = "User"

// # User Repository

// PostgresUserRepository implements [UserRepository] on the yamdb.account table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// UserColumns is the projection scanned by [ScanUser], in order.
var UserColumns = strings.Join([]string{
	schema.Account.ID, schema.Account.Username, schema.Account.Email,
	schema.Account.FirstName, schema.Account.LastName, schema.Account.Bio,
	schema.Account.Role, schema.Account.IsSuperuser,
}, ", ")

// ScanUser hydrates a [User] from a row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.Superuser,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a user record by primary key.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.Account.Table, schema.Account.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.Account.Table, schema.Account.Username)

	user, err := ScanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.Account.Table, schema.Account.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
Create inserts a new account and writes the generated ID back into user.

Unique violations on username or email surface as CONFLICT through [dberr.Wrap].
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`,
		schema.Account.Table,
		schema.Account.Username, schema.Account.Email, schema.Account.Role,
		schema.Account.FirstName, schema.Account.LastName, schema.Account.Bio,
		schema.Account.IsSuperuser,
		schema.Account.ID,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Superuser,
	).Scan(&user.ID)

	return dberr.Wrap(err, resourceUser)
}

/*
SetConfirmationCode stores a new code hash for the user.
*/
func (repository *PostgresUserRepository) SetConfirmationCode(context context.Context, userID int64, codeHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.Account.Table, schema.Account.ConfirmationCode,
		schema.Account.UpdatedAt, schema.Account.ID)

	tag, err := repository.pool.Exec(context, query, userID, codeHash)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}

/*
ConsumeConfirmationCode verifies and clears the stored code under a row lock.

Two concurrent exchanges serialize on SELECT ... FOR UPDATE; the second one
sees the cleared code and fails verification.
*/
func (repository *PostgresUserRepository) ConsumeConfirmationCode(
	context context.Context,
	username string,
	verify func(codeHash string) bool,
) (*User, bool, error) {
	selectQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		UserColumns, schema.Account.ConfirmationCode,
		schema.Account.Table, schema.Account.Username)

	clearQuery := fmt.Sprintf(`UPDATE %s SET %s = '', %s = NOW() WHERE %s = $1`,
		schema.Account.Table, schema.Account.ConfirmationCode,
		schema.Account.UpdatedAt, schema.Account.ID)

	var (
		user    = &User{}
		matched bool
	)

	err := pgx.BeginFunc(context, repository.pool, func(tx pgx.Tx) error {
		var codeHash string
		err := tx.QueryRow(context, selectQuery, username).Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Bio,
			&user.Role,
			&user.Superuser,
			&codeHash,
		)
		if err != nil {
			return err
		}

		matched = verify(codeHash)

		if codeHash == "" {
			return nil
		}
		_, err = tx.Exec(context, clearQuery, user.ID)
		return err
	})
	if err != nil {
		return nil, false, dberr.Wrap(err, resourceUser)
	}

	return user, matched, nil
}
