// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

const resourceTitle = "Title"

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func referenceTable(taxonomy Taxonomy) schema.ReferenceTable {
	if taxonomy == TaxonomyGenre {
		return schema.Genre
	}
	return schema.Category
}

// # Categories & Genres

// ListReferences returns one page of a taxonomy, filtered by a name substring.
func (repository *PostgresRepository) ListReferences(context context.Context, taxonomy Taxonomy, filter ReferenceFilter) ([]Reference, int, error) {
	table := referenceTable(taxonomy)
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER ()
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s, %s
		LIMIT $2 OFFSET $3`,
		table.ID, table.Label, table.Slug,
		table.Table,
		table.Label,
		table.Label, table.ID,
	)

	rows, err := repository.pool.Query(context, query, filter.Search, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, taxonomy.Resource())
	}
	defer rows.Close()

	references := make([]Reference, 0, filter.Page.Limit)
	total := 0
	for rows.Next() {
		var reference Reference
		if err := rows.Scan(&reference.ID, &reference.Name, &reference.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, taxonomy.Resource())
		}
		references = append(references, reference)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, taxonomy.Resource())
	}
	return references, total, nil
}

// CreateReference inserts a category or genre. A taken slug maps to CONFLICT on "slug".
func (repository *PostgresRepository) CreateReference(context context.Context, taxonomy Taxonomy, reference *Reference) error {
	table := referenceTable(taxonomy)
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Label, table.Slug, table.ID)

	err := repository.pool.QueryRow(context, query, reference.Name, reference.Slug).Scan(&reference.ID)
	return dberr.Wrap(err, taxonomy.Resource())
}

// DeleteReference removes a category or genre by slug.
func (repository *PostgresRepository) DeleteReference(context context.Context, taxonomy Taxonomy, slug string) error {
	table := referenceTable(taxonomy)
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, taxonomy.Resource())
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, taxonomy.Resource())
	}
	return nil
}

// # Titles

/*
titleColumns and titleFrom hydrate a title in one round trip.

  - Category: LEFT JOIN, so uncategorized titles still appear.
  - Genres: json_agg sub-query ordered by name, '[]' when there are none.
  - Rating: AVG of review scores, NULL when there are no reviews.
*/
var (
	titleColumns = fmt.Sprintf(`
		t.%[1]s, t.%[2]s, t.%[3]s, t.%[4]s,
		c.%[5]s, c.%[6]s,
		(SELECT AVG(r.%[7]s)::float8 FROM %[8]s r WHERE r.%[9]s = t.%[1]s),
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%[10]s, 'slug', g.%[11]s) ORDER BY g.%[10]s)
			FROM %[12]s tg
			JOIN %[13]s g ON g.%[14]s = tg.%[15]s
			WHERE tg.%[16]s = t.%[1]s
		), '[]'::json)`,
		schema.Title.ID, schema.Title.Label, schema.Title.Year, schema.Title.Description,
		schema.Category.Label, schema.Category.Slug,
		schema.Review.Score, schema.Review.Table, schema.Review.TitleID,
		schema.Genre.Label, schema.Genre.Slug,
		schema.TitleGenre.Table,
		schema.Genre.Table, schema.Genre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID,
	)

	titleFrom = fmt.Sprintf(`
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s`,
		schema.Title.Table, schema.Category.Table, schema.Category.ID, schema.Title.CategoryID,
	)
)

/*
ListTitles returns a filtered, paginated slice of titles and the total count.

Filters combine with AND; an empty filter value matches everything. The genre
filter uses EXISTS so a title matching several genres is never duplicated.
*/
func (repository *PostgresRepository) ListTitles(context context.Context, filter TitleFilter) ([]*Title, int, error) {
	genres := filter.Genres
	if genres == nil {
		genres = []string{}
	}

	query := fmt.Sprintf(`
		WITH matched AS (
			SELECT t.%[1]s, COUNT(*) OVER () AS total
			FROM %[2]s t
			LEFT JOIN %[3]s c ON c.%[4]s = t.%[5]s
			WHERE ($1 = '' OR t.%[6]s ILIKE '%%' || $1 || '%%')
			  AND ($2 = '' OR c.%[7]s = $2)
			  AND (cardinality($3::text[]) = 0 OR EXISTS (
					SELECT 1 FROM %[8]s tg
					JOIN %[9]s g ON g.%[10]s = tg.%[11]s
					WHERE tg.%[12]s = t.%[1]s AND g.%[13]s = ANY($3)))
			  AND ($4::int IS NULL OR t.%[14]s = $4)
			ORDER BY t.%[6]s, t.%[1]s
			LIMIT $5 OFFSET $6
		)
		SELECT %[15]s, m.total
		%[16]s
		JOIN matched m ON m.%[1]s = t.%[1]s
		ORDER BY t.%[6]s, t.%[1]s`,
		schema.Title.ID, schema.Title.Table,
		schema.Category.Table, schema.Category.ID, schema.Title.CategoryID,
		schema.Title.Label, schema.Category.Slug,
		schema.TitleGenre.Table, schema.Genre.Table, schema.Genre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID, schema.Genre.Slug,
		schema.Title.Year,
		titleColumns, titleFrom,
	)

	rows, err := repository.pool.Query(context, query,
		filter.Name, filter.Category, genres, filter.Year,
		filter.Page.Limit, filter.Page.Offset(),
	)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTitle)
	}
	defer rows.Close()

	titles := make([]*Title, 0, filter.Page.Limit)
	total := 0
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceTitle)
	}
	return titles, total, nil
}

// FindTitle returns one hydrated title.
func (repository *PostgresRepository) FindTitle(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.%s = $1`, titleColumns, titleFrom, schema.Title.ID)
	return scanTitle(repository.pool.QueryRow(context, query, id), nil)
}

// scanTitle reads one row of titleColumns. When total is non-nil a trailing
// window-count column is expected as well.
func scanTitle(row pgx.Row, total *int) (*Title, error) {
	var (
		title        Title
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)

	destinations := []any{
		&title.ID, &title.Name, &title.Year, &title.Description,
		&categoryName, &categorySlug,
		&title.Rating,
		&genresJSON,
	}
	if total != nil {
		destinations = append(destinations, total)
	}

	if err := row.Scan(destinations...); err != nil {
		return nil, dberr.Wrap(err, resourceTitle)
	}

	if categorySlug != nil {
		title.Category = &Category{Name: *categoryName, Slug: *categorySlug}
	}

	title.Genres = []Genre{}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("decode_title_genres_failed: %w", err)
	}
	return &title, nil
}

// CreateTitle inserts a title and its genre links in one transaction.
func (repository *PostgresRepository) CreateTitle(context context.Context, record TitleRecord) (int64, error) {
	var id int64

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveSlugs(context, tx, record)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
			schema.Title.Table,
			schema.Title.Label, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
			schema.Title.ID,
		)
		if err := tx.QueryRow(context, query, record.Name, record.Year, record.Description, categoryID).Scan(&id); err != nil {
			return err
		}

		return linkGenres(context, tx, id, genreIDs)
	})
	if err != nil {
		return 0, dberr.Wrap(err, resourceTitle)
	}
	return id, nil
}

// UpdateTitle replaces the title's fields and its full genre set in one transaction.
func (repository *PostgresRepository) UpdateTitle(context context.Context, id int64, record TitleRecord) error {
	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveSlugs(context, tx, record)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
			schema.Title.Table,
			schema.Title.Label, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
			schema.Title.ID,
		)
		tag, err := tx.Exec(context, query, id, record.Name, record.Year, record.Description, categoryID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.TitleGenre.Table, schema.TitleGenre.TitleID)
		if _, err := tx.Exec(context, unlink, id); err != nil {
			return err
		}

		return linkGenres(context, tx, id, genreIDs)
	})
	return dberr.Wrap(err, resourceTitle)
}

// DeleteTitle removes a title row.
func (repository *PostgresRepository) DeleteTitle(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Title.Table, schema.Title.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceTitle)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceTitle)
	}
	return nil
}

// # Helpers

/*
resolveSlugs turns the record's category and genre slugs into row IDs.

Returns:
  - *int64: The category ID, nil when the record has no category
  - []int64: Genre IDs in the order given
  - error: VALIDATION_ERROR naming the first unknown slug
*/
func resolveSlugs(context context.Context, tx pgx.Tx, record TitleRecord) (*int64, []int64, error) {
	var categoryID *int64
	if record.CategorySlug != nil {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
			schema.Category.ID, schema.Category.Table, schema.Category.Slug)

		var id int64
		err := tx.QueryRow(context, query, *record.CategorySlug).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, validate.FieldErr(FieldCategory, fmt.Sprintf("Unknown category %q", *record.CategorySlug))
		}
		if err != nil {
			return nil, nil, err
		}
		categoryID = &id
	}

	if len(record.GenreSlugs) == 0 {
		return categoryID, nil, nil
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1)`,
		schema.Genre.ID, schema.Genre.Slug, schema.Genre.Table, schema.Genre.Slug)

	rows, err := tx.Query(context, query, record.GenreSlugs)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	known := make(map[string]int64, len(record.GenreSlugs))
	for rows.Next() {
		var (
			id   int64
			slug string
		)
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, nil, err
		}
		known[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	genreIDs := make([]int64, 0, len(record.GenreSlugs))
	for _, slug := range record.GenreSlugs {
		id, ok := known[slug]
		if !ok {
			return nil, nil, validate.FieldErr(FieldGenre, fmt.Sprintf("Unknown genre %q", slug))
		}
		genreIDs = append(genreIDs, id)
	}
	return categoryID, genreIDs, nil
}

// linkGenres writes the title_genre rows for a title.
func linkGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::bigint[])`,
		schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.TitleGenre.GenreID)

	_, err := tx.Exec(context, query, titleID, genreIDs)
	return err
}
