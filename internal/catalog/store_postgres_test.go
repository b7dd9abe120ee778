// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package catalog_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/catalog"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// seedPostgres creates movie/book, drama/sci-fi, Solaris (movie; drama, sci-fi)
// and Dune (book; sci-fi), and returns the two title IDs.
func seedPostgres(t *testing.T, pool *pgxpool.Pool, service *catalog.Service) (solaris, dune int64) {
	t.Helper()
	pgtest.Reset(t, pool)
	ctx := context.Background()

	for _, input := range []catalog.ReferenceInput{{Name: "Movie", Slug: "movie"}, {Name: "Book", Slug: "book"}} {
		_, err := service.CreateReference(ctx, catalog.TaxonomyCategory, input)
		require.NoError(t, err)
	}
	for _, input := range []catalog.ReferenceInput{{Name: "Drama", Slug: "drama"}, {Name: "Science Fiction", Slug: "sci-fi"}} {
		_, err := service.CreateReference(ctx, catalog.TaxonomyGenre, input)
		require.NoError(t, err)
	}

	first, err := service.CreateTitle(ctx, catalog.TitleInput{
		Name: "Solaris", Year: pointer.To(1972), Category: pointer.To("movie"),
		Genre: []string{"sci-fi", "drama"}, Description: pointer.To("Ocean planet"),
	})
	require.NoError(t, err)

	second, err := service.CreateTitle(ctx, catalog.TitleInput{
		Name: "Dune", Year: pointer.To(1965), Category: pointer.To("book"), Genre: []string{"sci-fi"},
	})
	require.NoError(t, err)

	return first.ID, second.ID
}

// addReviews stores one review per score, each by a different account.
func addReviews(t *testing.T, pool *pgxpool.Pool, titleID int64, scores ...int) {
	t.Helper()
	ctx := context.Background()
	for i, score := range scores {
		var authorID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO yamdb.account (username, email) VALUES ($1, $2) RETURNING id`,
			"reviewer"+strings.Repeat("x", i), "reviewer"+strings.Repeat("x", i)+"@x.com",
		).Scan(&authorID)
		require.NoError(t, err)

		_, err = pool.Exec(ctx,
			`INSERT INTO yamdb.review (title_id, author_id, text, score) VALUES ($1, $2, 'ok', $3)`,
			titleID, authorID, score)
		require.NoError(t, err)
	}
}

func TestPostgresRepository(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := catalog.NewPostgresRepository(pool)
	service := catalog.NewService(repo, discardLogger()).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()
	firstPage := pagination.Params{Page: 1, Limit: 10}

	t.Run("hydrates_category_and_sorted_genres", func(t *testing.T) {
		solaris, _ := seedPostgres(t, pool, service)

		title, err := repo.FindTitle(ctx, solaris)
		require.NoError(t, err)
		assert.Equal(t, "Solaris", title.Name)
		assert.Equal(t, 1972, title.Year)
		assert.Equal(t, &catalog.Category{Name: "Movie", Slug: "movie"}, title.Category)
		assert.Equal(t, []catalog.Genre{{Name: "Drama", Slug: "drama"}, {Name: "Science Fiction", Slug: "sci-fi"}}, title.Genres)
		assert.Nil(t, title.Rating)
	})

	t.Run("rating_is_mean_of_scores", func(t *testing.T) {
		solaris, dune := seedPostgres(t, pool, service)
		addReviews(t, pool, solaris, 7, 8, 10)

		title, err := repo.FindTitle(ctx, solaris)
		require.NoError(t, err)
		require.NotNil(t, title.Rating)
		assert.InDelta(t, 25.0/3.0, *title.Rating, 1e-9)

		untouched, err := repo.FindTitle(ctx, dune)
		require.NoError(t, err)
		assert.Nil(t, untouched.Rating)
	})

	t.Run("title_without_genres_has_empty_list", func(t *testing.T) {
		seedPostgres(t, pool, service)

		title, err := service.CreateTitle(ctx, catalog.TitleInput{Name: "Untagged", Year: pointer.To(2001)})
		require.NoError(t, err)
		assert.NotNil(t, title.Genres)
		assert.Empty(t, title.Genres)
		assert.Nil(t, title.Category)
	})

	t.Run("list_filters", func(t *testing.T) {
		seedPostgres(t, pool, service)

		tests := []struct {
			name   string
			filter catalog.TitleFilter
			want   []string
		}{
			{"all", catalog.TitleFilter{}, []string{"Dune", "Solaris"}},
			{"name_substring", catalog.TitleFilter{Name: "sOLa"}, []string{"Solaris"}},
			{"genre", catalog.TitleFilter{Genres: []string{"drama"}}, []string{"Solaris"}},
			{"any_genre", catalog.TitleFilter{Genres: []string{"drama", "sci-fi"}}, []string{"Dune", "Solaris"}},
			{"category", catalog.TitleFilter{Category: "book"}, []string{"Dune"}},
			{"year", catalog.TitleFilter{Year: pointer.To(1972)}, []string{"Solaris"}},
			{"combined_empty", catalog.TitleFilter{Category: "book", Genres: []string{"drama"}}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tt.filter.Page = firstPage
				titles, total, err := repo.ListTitles(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, len(tt.want), total)

				names := make([]string, 0, len(titles))
				for _, title := range titles {
					names = append(names, title.Name)
				}
				assert.ElementsMatch(t, tt.want, names)
			})
		}
	})

	t.Run("deleting_category_uncategorizes_titles", func(t *testing.T) {
		solaris, _ := seedPostgres(t, pool, service)

		require.NoError(t, repo.DeleteReference(ctx, catalog.TaxonomyCategory, "movie"))

		title, err := repo.FindTitle(ctx, solaris)
		require.NoError(t, err)
		assert.Nil(t, title.Category)
		assert.Len(t, title.Genres, 2)
	})

	t.Run("deleting_genre_unlinks_titles", func(t *testing.T) {
		solaris, _ := seedPostgres(t, pool, service)

		require.NoError(t, repo.DeleteReference(ctx, catalog.TaxonomyGenre, "drama"))

		title, err := repo.FindTitle(ctx, solaris)
		require.NoError(t, err)
		assert.Equal(t, []catalog.Genre{{Name: "Science Fiction", Slug: "sci-fi"}}, title.Genres)
	})

	t.Run("patch_null_clears_category_and_description", func(t *testing.T) {
		solaris, _ := seedPostgres(t, pool, service)

		title, err := service.UpdateTitle(ctx, solaris, catalog.TitlePatch{
			Category:    pointer.Null[string](),
			Description: pointer.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, title.Category)
		assert.Nil(t, title.Description)
		assert.Len(t, title.Genres, 2)
	})

	t.Run("patch_replaces_genre_set", func(t *testing.T) {
		solaris, _ := seedPostgres(t, pool, service)

		genres := []string{"drama"}
		title, err := service.UpdateTitle(ctx, solaris, catalog.TitlePatch{Genre: &genres})
		require.NoError(t, err)
		assert.Equal(t, []catalog.Genre{{Name: "Drama", Slug: "drama"}}, title.Genres)
		assert.Equal(t, "movie", title.Category.Slug)
	})

	t.Run("unbounded_title_name", func(t *testing.T) {
		seedPostgres(t, pool, service)

		name := strings.Repeat("A very long title ", 100)
		title, err := service.CreateTitle(ctx, catalog.TitleInput{Name: name, Year: pointer.To(1999)})
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(name), title.Name)
	})

	t.Run("unknown_slugs_roll_back", func(t *testing.T) {
		seedPostgres(t, pool, service)

		_, err := service.CreateTitle(ctx, catalog.TitleInput{Name: "Ghost", Year: pointer.To(2000), Genre: []string{"drama", "horror"}})
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, catalog.FieldGenre, appErr.Details[0].Field)

		_, total, err := repo.ListTitles(ctx, catalog.TitleFilter{Name: "Ghost", Page: firstPage})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("duplicate_slug_conflicts", func(t *testing.T) {
		seedPostgres(t, pool, service)

		err := repo.CreateReference(ctx, catalog.TaxonomyGenre, &catalog.Reference{Name: "Drama again", Slug: "drama"})
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.Equal(t, "slug", appErr.Details[0].Field)
	})

	t.Run("missing_rows", func(t *testing.T) {
		seedPostgres(t, pool, service)

		_, err := repo.FindTitle(ctx, 999)
		assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
		assert.True(t, apperr.HasCode(repo.DeleteTitle(ctx, 999), "NOT_FOUND"))
		assert.True(t, apperr.HasCode(repo.DeleteReference(ctx, catalog.TaxonomyCategory, "ghost"), "NOT_FOUND"))
	})
}
