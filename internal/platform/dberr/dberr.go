// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates PostgreSQL failures into [apperr.AppError] values.
//
// The database is the source of truth for uniqueness, so a constraint
// violation raised by a racing insert surfaces exactly like the advisory
// pre-check in the service layer: a 409 naming the colliding field.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// Constraint names declared in the initial migration.
const (
	ConstraintAccountUsername = "account_username_key"
	ConstraintAccountEmail    = "account_email_key"
	ConstraintCategorySlug    = "category_slug_key"
	ConstraintGenreSlug       = "genre_slug_key"
	ConstraintReviewAuthor    = "review_author_title_key"
)

// conflictFields maps a unique constraint to the JSON field it protects.
var conflictFields = map[string]conflict{
	ConstraintAccountUsername: {"username", "A user with that username already exists"},
	ConstraintAccountEmail:    {"email", "A user with that email already exists"},
	ConstraintCategorySlug:    {"slug", "A category with that slug already exists"},
	ConstraintGenreSlug:       {"slug", "A genre with that slug already exists"},
	ConstraintReviewAuthor:    {"title", "You have already reviewed this title"},
}

type conflict struct {
	field   string
	message string
}

// Wrap inspects a database error and converts it for the named resource.
//
//   - [pgx.ErrNoRows] becomes NOT_FOUND.
//   - unique_violation becomes CONFLICT with the field detail.
//   - foreign_key_violation and check_violation become VALIDATION_ERROR.
//   - anything else becomes INTERNAL_ERROR carrying the original cause.
//
// Errors that already are an [apperr.AppError] pass through untouched.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Internal(err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if c, ok := conflictFields[pgErr.ConstraintName]; ok {
			return apperr.ConflictField(c.field, c.message).WithCause(err)
		}
		return apperr.Conflict(resource + " already exists").WithCause(err)

	case pgerrcode.ForeignKeyViolation:
		return apperr.ValidationError("Referenced record does not exist").WithCause(err)

	case pgerrcode.CheckViolation:
		return apperr.ValidationError("Value out of range").WithCause(err)
	}

	return apperr.Internal(err)
}
