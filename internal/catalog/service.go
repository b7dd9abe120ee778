// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service implements the catalog use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for the release-year check.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Categories & Genres

// ListReferences returns one page of categories or genres.
func (service *Service) ListReferences(ctx context.Context, taxonomy Taxonomy, filter ReferenceFilter) ([]Reference, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return service.repository.ListReferences(ctx, taxonomy, filter)
}

/*
CreateReference adds a category or genre.

When the slug is omitted it is derived from the name. A name that yields no
usable slug (e.g., only non-Latin letters) is rejected and the client must
supply one.
*/
func (service *Service) CreateReference(ctx context.Context, taxonomy Taxonomy, input ReferenceInput) (*Reference, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = slug.FromN(input.Name, SlugMaxLength)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLength).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, SlugMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	reference := &Reference{Name: input.Name, Slug: input.Slug}
	if err := service.repository.CreateReference(ctx, taxonomy, reference); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "reference_created",
		slog.String("taxonomy", strings.ToLower(taxonomy.Resource())),
		slog.String("slug", reference.Slug),
	)
	return reference, nil
}

// DeleteReference removes a category or genre by slug.
func (service *Service) DeleteReference(ctx context.Context, taxonomy Taxonomy, slug string) error {
	if err := service.repository.DeleteReference(ctx, taxonomy, slug); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "reference_deleted",
		slog.String("taxonomy", strings.ToLower(taxonomy.Resource())),
		slog.String("slug", slug),
	)
	return nil
}

// # Titles

// ListTitles returns one page of titles.
func (service *Service) ListTitles(ctx context.Context, filter TitleFilter) ([]*Title, int, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	return service.repository.ListTitles(ctx, filter)
}

// GetTitle returns a single title with its rating.
func (service *Service) GetTitle(ctx context.Context, id int64) (*Title, error) {
	return service.repository.FindTitle(ctx, id)
}

/*
CreateTitle validates and stores a new title.

Returns:
  - *Title: The stored title, re-read so category, genres and rating are hydrated
  - error: VALIDATION_ERROR for bad fields or unknown slugs
*/
func (service *Service) CreateTitle(ctx context.Context, input TitleInput) (*Title, error) {
	record := TitleRecord{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	}
	pointer.Apply(&record.Year, input.Year)

	validator := &validate.Validator{}
	validator.Custom(FieldYear, input.Year == nil, "This field is required")
	if err := service.validateTitle(validator, &record); err != nil {
		return nil, err
	}

	id, err := service.repository.CreateTitle(ctx, record)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "title_created", slog.Int64("title_id", id))
	return service.repository.FindTitle(ctx, id)
}

// UpdateTitle applies a partial update. Genres, when present, replace the whole set.
func (service *Service) UpdateTitle(ctx context.Context, id int64, patch TitlePatch) (*Title, error) {
	title, err := service.repository.FindTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	record := title.Record()
	pointer.ApplyFunc(&record.Name, patch.Name, strings.TrimSpace)
	pointer.Apply(&record.Year, patch.Year)
	pointer.Apply(&record.GenreSlugs, patch.Genre)
	pointer.ApplyOptional(&record.Description, patch.Description)
	pointer.ApplyOptional(&record.CategorySlug, patch.Category)

	if err := service.validateTitle(&validate.Validator{}, &record); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateTitle(ctx, id, record); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "title_updated", slog.Int64("title_id", id))
	return service.repository.FindTitle(ctx, id)
}

// DeleteTitle removes a title together with its reviews and comments.
func (service *Service) DeleteTitle(ctx context.Context, id int64) error {
	if err := service.repository.DeleteTitle(ctx, id); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Helpers

// validateTitle checks a title write and removes duplicate genre slugs in place.
// Failures already collected in validator are reported alongside.
func (service *Service) validateTitle(validator *validate.Validator, record *TitleRecord) error {
	currentYear := service.now().Year()

	validator.Required(FieldName, record.Name).
		Max(FieldYear, record.Year, currentYear, fmt.Sprintf("Year cannot be later than %d", currentYear))

	if record.CategorySlug != nil {
		validator.Slug(FieldCategory, *record.CategorySlug)
	}

	seen := make(map[string]bool, len(record.GenreSlugs))
	genres := make([]string, 0, len(record.GenreSlugs))
	for _, genre := range record.GenreSlugs {
		if seen[genre] {
			continue
		}
		seen[genre] = true
		validator.Slug(FieldGenre, genre)
		genres = append(genres, genre)
	}
	record.GenreSlugs = genres

	return validator.Err()
}
