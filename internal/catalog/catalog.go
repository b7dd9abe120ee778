// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog manages the reviewable works of YaMDb and their taxonomy.

# Core Responsibility

  - Taxonomy: [Category] (one per title) and [Genre] (many per title), both
    addressed by slug.
  - Titles: the works users review. A title's rating is the mean score of its
    reviews, computed on read and never stored.

Reads are public. Writes are reserved for administrators and gated by the
route middleware.
*/
package catalog

import (
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Validation Limits

// Category and genre columns are bounded; title names are unbounded text.
const (
	NameMaxLength = 256
	SlugMaxLength = 50
)

// Field names reported in validation details.
const (
	FieldName     = "name"
	FieldSlug     = "slug"
	FieldYear     = "year"
	FieldGenre    = "genre"
	FieldCategory = "category"
)

// # Taxonomy Domain

// Taxonomy selects which slug-addressed reference set an operation targets.
type Taxonomy int

const (
	TaxonomyCategory Taxonomy = iota
	TaxonomyGenre
)

// Resource returns the human-readable name used in error messages.
func (t Taxonomy) Resource() string {
	if t == TaxonomyGenre {
		return "Genre"
	}
	return "Category"
}

// Reference is a category or genre.
type Reference struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category and Genre share the [Reference] shape.
type (
	Category = Reference
	Genre    = Reference
)

// ReferenceInput is the payload for creating a category or genre.
// An empty Slug is derived from Name.
type ReferenceInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ReferenceFilter narrows a reference listing.
type ReferenceFilter struct {
	Search string
	Page   pagination.Params
}

// # Title Domain

// Title is a reviewable work as returned to clients.
type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description *string   `json:"description"`
	Rating      *float64  `json:"rating"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
}

// TitleFilter narrows a title listing. Empty fields do not filter.
type TitleFilter struct {
	// Name is a case-insensitive substring of the title name.
	Name string
	// Genres matches titles linked to any of the listed genre slugs.
	Genres   []string
	Category string
	Year     *int
	Page     pagination.Params
}

// TitleInput is the create payload. Genres and the category are referenced by slug.
type TitleInput struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

// TitlePatch is the partial update payload. Absent fields are left unchanged;
// an explicit null clears the description or the category.
type TitlePatch struct {
	Name        *string                  `json:"name"`
	Year        *int                     `json:"year"`
	Description pointer.Optional[string] `json:"description"`
	Genre       *[]string                `json:"genre"`
	Category    pointer.Optional[string] `json:"category"`
}

// TitleRecord is the validated, storage-ready form of a title write.
type TitleRecord struct {
	Name         string
	Year         int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

// Record returns the storage form of an existing title, used as the base of a patch.
func (t *Title) Record() TitleRecord {
	record := TitleRecord{
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		GenreSlugs:  make([]string, 0, len(t.Genres)),
	}
	if t.Category != nil {
		slug := t.Category.Slug
		record.CategorySlug = &slug
	}
	for _, genre := range t.Genres {
		record.GenreSlugs = append(record.GenreSlugs, genre.Slug)
	}
	return record
}
