// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reviews

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Projections

// Both projections join the author's username onto each row.
var (
	reviewSelect = fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.Account.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
	)
	reviewFrom = fmt.Sprintf(`
		FROM %s r
		JOIN %s a ON a.%s = r.%s`,
		schema.Review.Table, schema.Account.Table, schema.Account.ID, schema.Review.AuthorID,
	)

	commentSelect = fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Account.Username,
		schema.Comment.Text, schema.Comment.PubDate,
	)
	commentFrom = fmt.Sprintf(`
		FROM %s c
		JOIN %s a ON a.%s = c.%s`,
		schema.Comment.Table, schema.Account.Table, schema.Account.ID, schema.Comment.AuthorID,
	)
)

// scanReview reads one reviewSelect row followed by any extra columns.
func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	destinations := append([]any{
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, dberr.Wrap(err, resourceReview)
	}
	return review, nil
}

// scanComment reads one commentSelect row followed by any extra columns.
func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{}
	destinations := append([]any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, dberr.Wrap(err, resourceComment)
	}
	return comment, nil
}

// # Titles

// TitleExists checks that a title row is present.
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, schema.Title.Table, schema.Title.ID)

	var one int
	err := repository.pool.QueryRow(context, query, titleID).Scan(&one)
	return dberr.Wrap(err, resourceTitle)
}

// # Reviews

// ListReviews returns one page of a title's reviews, newest first.
func (repository *PostgresRepository) ListReviews(context context.Context, query ListQuery) ([]*Review, int, error) {
	sql := fmt.Sprintf(`%s, COUNT(*) OVER () %s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		reviewSelect, reviewFrom,
		schema.Review.TitleID,
		schema.Review.PubDate, schema.Review.ID,
	)

	rows, err := repository.pool.Query(context, sql, query.ParentID, query.Page.Limit, query.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceReview)
	}
	defer rows.Close()

	reviews := make([]*Review, 0, query.Page.Limit)
	total := 0
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceReview)
	}
	return reviews, total, nil
}

// FindReview retrieves a review that belongs to the given title.
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	sql := fmt.Sprintf(`%s %s WHERE r.%s = $1 AND r.%s = $2`,
		reviewSelect, reviewFrom, schema.Review.TitleID, schema.Review.ID)

	return scanReview(repository.pool.QueryRow(context, sql, titleID, reviewID))
}

// HasReview reports whether the (title, author) pair already has a review.
func (repository *PostgresRepository) HasReview(context context.Context, titleID, authorID int64) (bool, error) {
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Review.Table, schema.Review.TitleID, schema.Review.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, sql, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceReview)
	}
	return exists, nil
}

/*
CreateReview inserts the review and returns the server-set fields in the same
statement. A concurrent duplicate trips review_author_title_key and surfaces as
CONFLICT on "title".
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	sql := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s, %s)
			VALUES ($1, $2, $3, $4)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		schema.Review.Table, schema.Review.TitleID, schema.Review.AuthorID, schema.Review.Text, schema.Review.Score,
		schema.Review.ID, schema.Review.PubDate, schema.Review.AuthorID,
		schema.Review.ID, schema.Review.PubDate, schema.Account.Username,
		schema.Account.Table, schema.Account.ID, schema.Review.AuthorID,
	)

	err := repository.pool.QueryRow(context, sql, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate, &review.Author)
	return dberr.Wrap(err, resourceReview)
}

// UpdateReview persists the mutable fields of a review.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Review.Table, schema.Review.Text, schema.Review.Score, schema.Review.ID)

	return repository.execOne(context, sql, resourceReview, review.ID, review.Text, review.Score)
}

// DeleteReview removes a review row.
func (repository *PostgresRepository) DeleteReview(context context.Context, reviewID int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Review.Table, schema.Review.ID)
	return repository.execOne(context, sql, resourceReview, reviewID)
}

// # Comments

// ListComments returns one page of a review's comments, newest first.
func (repository *PostgresRepository) ListComments(context context.Context, query ListQuery) ([]*Comment, int, error) {
	sql := fmt.Sprintf(`%s, COUNT(*) OVER () %s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3`,
		commentSelect, commentFrom,
		schema.Comment.ReviewID,
		schema.Comment.PubDate, schema.Comment.ID,
	)

	rows, err := repository.pool.Query(context, sql, query.ParentID, query.Page.Limit, query.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceComment)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, query.Page.Limit)
	total := 0
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceComment)
	}
	return comments, total, nil
}

// FindComment retrieves a comment that belongs to the given review.
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	sql := fmt.Sprintf(`%s %s WHERE c.%s = $1 AND c.%s = $2`,
		commentSelect, commentFrom, schema.Comment.ReviewID, schema.Comment.ID)

	return scanComment(repository.pool.QueryRow(context, sql, reviewID, commentID))
}

// CreateComment inserts the comment and returns the server-set fields.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	sql := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s)
			VALUES ($1, $2, $3)
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, a.%s
		FROM inserted i
		JOIN %s a ON a.%s = i.%s`,
		schema.Comment.Table, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Comment.Text,
		schema.Comment.ID, schema.Comment.PubDate, schema.Comment.AuthorID,
		schema.Comment.ID, schema.Comment.PubDate, schema.Account.Username,
		schema.Account.Table, schema.Account.ID, schema.Comment.AuthorID,
	)

	err := repository.pool.QueryRow(context, sql, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate, &comment.Author)
	return dberr.Wrap(err, resourceComment)
}

// UpdateComment persists the comment text.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Comment.Table, schema.Comment.Text, schema.Comment.ID)

	return repository.execOne(context, sql, resourceComment, comment.ID, comment.Text)
}

// DeleteComment removes a comment row.
func (repository *PostgresRepository) DeleteComment(context context.Context, commentID int64) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Comment.Table, schema.Comment.ID)
	return repository.execOne(context, sql, resourceComment, commentID)
}

// execOne runs a statement that must touch exactly one row.
func (repository *PostgresRepository) execOne(context context.Context, sql, resource string, args ...any) error {
	tag, err := repository.pool.Exec(context, sql, args...)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}
