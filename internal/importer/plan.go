// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// valueKind selects how a CSV cell is converted before COPY.
type valueKind int

const (
	kindText valueKind = iota
	kindInt
	// kindOptionalInt turns an empty cell into NULL.
	kindOptionalInt
	kindTimestamp
)

// Column is one target column of a load.
type Column struct {
	Name string
	Kind valueKind
	// Fallback replaces an empty text cell. It stands in for the column's
	// database default, which COPY does not apply.
	Fallback string
}

// Load describes how one CSV file maps onto one table.
type Load struct {
	File    string
	Table   string
	Columns []Column
	// HasSerialID marks tables whose id sequence must be re-synced afterwards.
	HasSerialID bool
}

// headerAliases maps CSV header names to column names.
var headerAliases = map[string]string{
	"author":   "author_id",
	"category": "category_id",
}

// DefaultPlan lists the loads in foreign-key dependency order.
var DefaultPlan = []Load{
	{
		File:  "users.csv",
		Table: schema.Account.Name,
		Columns: columns(schema.Account.ImportColumns(), map[string]valueKind{
			schema.Account.ID: kindInt,
		}, map[string]string{
			schema.Account.Role: sec.RoleUser.String(),
		}),
		HasSerialID: true,
	},
	{
		File:        "category.csv",
		Table:       schema.Category.Name,
		Columns:     columns(schema.Category.Columns(), map[string]valueKind{schema.Category.ID: kindInt}, nil),
		HasSerialID: true,
	},
	{
		File:        "genre.csv",
		Table:       schema.Genre.Name,
		Columns:     columns(schema.Genre.Columns(), map[string]valueKind{schema.Genre.ID: kindInt}, nil),
		HasSerialID: true,
	},
	{
		File:  "titles.csv",
		Table: schema.Title.Name,
		Columns: columns(schema.Title.Columns(), map[string]valueKind{
			schema.Title.ID:         kindInt,
			schema.Title.Year:       kindInt,
			schema.Title.CategoryID: kindOptionalInt,
		}, nil),
		HasSerialID: true,
	},
	{
		File:  "genre_title.csv",
		Table: schema.TitleGenre.Name,
		Columns: columns(schema.TitleGenre.Columns(), map[string]valueKind{
			schema.TitleGenre.TitleID: kindInt,
			schema.TitleGenre.GenreID: kindInt,
		}, nil),
	},
	{
		File:  "review.csv",
		Table: schema.Review.Name,
		Columns: columns(schema.Review.Columns(), map[string]valueKind{
			schema.Review.ID:       kindInt,
			schema.Review.TitleID:  kindInt,
			schema.Review.AuthorID: kindInt,
			schema.Review.Score:    kindInt,
			schema.Review.PubDate:  kindTimestamp,
		}, nil),
		HasSerialID: true,
	},
	{
		File:  "comments.csv",
		Table: schema.Comment.Name,
		Columns: columns(schema.Comment.Columns(), map[string]valueKind{
			schema.Comment.ID:       kindInt,
			schema.Comment.ReviewID: kindInt,
			schema.Comment.AuthorID: kindInt,
			schema.Comment.PubDate:  kindTimestamp,
		}, nil),
		HasSerialID: true,
	},
}

// columns builds a column list; names absent from kinds are text.
func columns(names []string, kinds map[string]valueKind, fallbacks map[string]string) []Column {
	result := make([]Column, 0, len(names))
	for _, name := range names {
		result = append(result, Column{Name: name, Kind: kinds[name], Fallback: fallbacks[name]})
	}
	return result
}
