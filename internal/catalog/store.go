// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Catalog Data Access

// ReferenceRepository defines the data access contract for categories and genres.
type ReferenceRepository interface {

	/*
		ListReferences returns one page of a taxonomy ordered by name.

		Returns:
		  - []Reference: The page
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	ListReferences(context context.Context, taxonomy Taxonomy, filter ReferenceFilter) ([]Reference, int, error)

	/*
		CreateReference inserts a category or genre and sets its ID.

		Returns:
		  - error: CONFLICT on a duplicate slug
	*/
	CreateReference(context context.Context, taxonomy Taxonomy, reference *Reference) error

	/*
		DeleteReference removes a category or genre by slug. Titles of a deleted
		category become uncategorized; genre links are dropped.

		Returns:
		  - error: NOT_FOUND if no row has the slug
	*/
	DeleteReference(context context.Context, taxonomy Taxonomy, slug string) error
}

// TitleRepository defines the data access contract for titles.
type TitleRepository interface {

	// ListTitles returns one page of titles ordered by name, plus the total count.
	ListTitles(context context.Context, filter TitleFilter) ([]*Title, int, error)

	// FindTitle returns a hydrated title (category, genres, rating).
	FindTitle(context context.Context, id int64) (*Title, error)

	/*
		CreateTitle inserts a title and its genre links atomically.

		Returns:
		  - int64: The new title ID
		  - error: VALIDATION_ERROR if a referenced slug does not exist
	*/
	CreateTitle(context context.Context, record TitleRecord) (int64, error)

	// UpdateTitle replaces a title's fields and genre links atomically.
	UpdateTitle(context context.Context, id int64, record TitleRecord) error

	// DeleteTitle removes a title; its reviews and comments cascade.
	DeleteTitle(context context.Context, id int64) error
}

// Repository is the full catalog store.
type Repository interface {
	ReferenceRepository
	TitleRepository
}
