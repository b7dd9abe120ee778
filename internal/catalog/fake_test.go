// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/yamdb/internal/catalog"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// memoryCatalog is an in-memory [catalog.Repository].
type memoryCatalog struct {
	mu         sync.Mutex
	nextID     int64
	references map[catalog.Taxonomy][]catalog.Reference
	titles     map[int64]*storedTitle
	scores     map[int64][]int
}

type storedTitle struct {
	id     int64
	record catalog.TitleRecord
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		references: map[catalog.Taxonomy][]catalog.Reference{},
		titles:     map[int64]*storedTitle{},
		scores:     map[int64][]int{},
	}
}

func (m *memoryCatalog) ListReferences(_ context.Context, taxonomy catalog.Taxonomy, filter catalog.ReferenceFilter) ([]catalog.Reference, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []catalog.Reference
	for _, reference := range m.references[taxonomy] {
		if strings.Contains(strings.ToLower(reference.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, reference)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return page(matched, filter.Page.Offset(), filter.Page.Limit), len(matched), nil
}

func (m *memoryCatalog) CreateReference(_ context.Context, taxonomy catalog.Taxonomy, reference *catalog.Reference) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.references[taxonomy] {
		if existing.Slug == reference.Slug {
			return apperr.ConflictField("slug", taxonomy.Resource()+" already exists")
		}
	}
	m.nextID++
	reference.ID = m.nextID
	m.references[taxonomy] = append(m.references[taxonomy], *reference)
	return nil
}

func (m *memoryCatalog) DeleteReference(_ context.Context, taxonomy catalog.Taxonomy, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	references := m.references[taxonomy]
	for i, existing := range references {
		if existing.Slug != slug {
			continue
		}
		m.references[taxonomy] = append(references[:i], references[i+1:]...)
		for _, title := range m.titles {
			if taxonomy == catalog.TaxonomyCategory && title.record.CategorySlug != nil && *title.record.CategorySlug == slug {
				title.record.CategorySlug = nil
			}
			if taxonomy == catalog.TaxonomyGenre {
				title.record.GenreSlugs = without(title.record.GenreSlugs, slug)
			}
		}
		return nil
	}
	return apperr.NotFound(taxonomy.Resource())
}

func (m *memoryCatalog) ListTitles(_ context.Context, filter catalog.TitleFilter) ([]*catalog.Title, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*catalog.Title
	for _, stored := range m.titles {
		record := stored.record
		if filter.Name != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && (record.CategorySlug == nil || *record.CategorySlug != filter.Category) {
			continue
		}
		if len(filter.Genres) > 0 && !containsAny(record.GenreSlugs, filter.Genres) {
			continue
		}
		if filter.Year != nil && record.Year != *filter.Year {
			continue
		}
		matched = append(matched, m.hydrate(stored))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return page(matched, filter.Page.Offset(), filter.Page.Limit), len(matched), nil
}

func (m *memoryCatalog) FindTitle(_ context.Context, id int64) (*catalog.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return m.hydrate(stored), nil
}

func (m *memoryCatalog) CreateTitle(_ context.Context, record catalog.TitleRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSlugs(record); err != nil {
		return 0, err
	}
	m.nextID++
	m.titles[m.nextID] = &storedTitle{id: m.nextID, record: record}
	return m.nextID, nil
}

func (m *memoryCatalog) UpdateTitle(_ context.Context, id int64, record catalog.TitleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.titles[id]
	if !ok {
		return apperr.NotFound("Title")
	}
	if err := m.checkSlugs(record); err != nil {
		return err
	}
	stored.record = record
	return nil
}

func (m *memoryCatalog) DeleteTitle(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(m.titles, id)
	delete(m.scores, id)
	return nil
}

// addScores records review scores so hydrated titles carry a rating.
func (m *memoryCatalog) addScores(titleID int64, scores ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[titleID] = append(m.scores[titleID], scores...)
}

func (m *memoryCatalog) hydrate(stored *storedTitle) *catalog.Title {
	title := &catalog.Title{
		ID:          stored.id,
		Name:        stored.record.Name,
		Year:        stored.record.Year,
		Description: stored.record.Description,
		Genres:      []catalog.Genre{},
	}
	if slug := stored.record.CategorySlug; slug != nil {
		reference, _ := m.find(catalog.TaxonomyCategory, *slug)
		title.Category = &reference
	}
	for _, slug := range stored.record.GenreSlugs {
		reference, _ := m.find(catalog.TaxonomyGenre, slug)
		title.Genres = append(title.Genres, reference)
	}
	if scores := m.scores[stored.id]; len(scores) > 0 {
		sum := 0
		for _, score := range scores {
			sum += score
		}
		rating := float64(sum) / float64(len(scores))
		title.Rating = &rating
	}
	return title
}

func (m *memoryCatalog) checkSlugs(record catalog.TitleRecord) error {
	if slug := record.CategorySlug; slug != nil {
		if _, ok := m.find(catalog.TaxonomyCategory, *slug); !ok {
			return validate.FieldErr(catalog.FieldCategory, fmt.Sprintf("Unknown category %q", *slug))
		}
	}
	for _, slug := range record.GenreSlugs {
		if _, ok := m.find(catalog.TaxonomyGenre, slug); !ok {
			return validate.FieldErr(catalog.FieldGenre, fmt.Sprintf("Unknown genre %q", slug))
		}
	}
	return nil
}

func (m *memoryCatalog) find(taxonomy catalog.Taxonomy, slug string) (catalog.Reference, bool) {
	for _, reference := range m.references[taxonomy] {
		if reference.Slug == slug {
			return reference, true
		}
	}
	return catalog.Reference{}, false
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsAny(items, values []string) bool {
	for _, item := range items {
		for _, value := range values {
			if item == value {
				return true
			}
		}
	}
	return false
}

func without(items []string, value string) []string {
	kept := items[:0]
	for _, item := range items {
		if item != value {
			kept = append(kept, item)
		}
	}
	return kept
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedCatalog returns a store holding two categories, three genres and two titles.
func seedCatalog() *memoryCatalog {
	store := newMemoryCatalog()
	ctx := context.Background()

	for _, reference := range []catalog.Reference{{Name: "Movie", Slug: "movie"}, {Name: "Book", Slug: "book"}} {
		reference := reference
		_ = store.CreateReference(ctx, catalog.TaxonomyCategory, &reference)
	}
	for _, reference := range []catalog.Reference{{Name: "Drama", Slug: "drama"}, {Name: "Sci-Fi", Slug: "sci-fi"}, {Name: "Comedy", Slug: "comedy"}} {
		reference := reference
		_ = store.CreateReference(ctx, catalog.TaxonomyGenre, &reference)
	}

	movie, book := "movie", "book"
	_, _ = store.CreateTitle(ctx, catalog.TitleRecord{Name: "Solaris", Year: 1972, CategorySlug: &movie, GenreSlugs: []string{"sci-fi", "drama"}})
	_, _ = store.CreateTitle(ctx, catalog.TitleRecord{Name: "Dune", Year: 1965, CategorySlug: &book, GenreSlugs: []string{"sci-fi"}})
	return store
}
