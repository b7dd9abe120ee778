// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReferenceTable represents a slug-identified reference table
// ('yamdb.category' and 'yamdb.genre' share this shape).
type ReferenceTable struct {
	Table string
	Name  string
	ID    string
	Label string
	Slug  string
}

// Category is the schema definition for yamdb.category
var Category = ReferenceTable{
	Table: Name + ".category",
	Name:  "category",
	ID:    "id",
	Label: "name",
	Slug:  "slug",
}

// Genre is the schema definition for yamdb.genre
var Genre = ReferenceTable{
	Table: Name + ".genre",
	Name:  "genre",
	ID:    "id",
	Label: "name",
	Slug:  "slug",
}

// Columns returns all column names in import order.
func (t ReferenceTable) Columns() []string {
	return []string{t.ID, t.Label, t.Slug}
}

// TitleTable represents the 'yamdb.title' table
type TitleTable struct {
	Table       string
	Name        string
	ID          string
	Label       string
	Year        string
	Description string
	CategoryID  string
}

// Title is the schema definition for yamdb.title
var Title = TitleTable{
	Table:       Name + ".title",
	Name:        "title",
	ID:          "id",
	Label:       "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "category_id",
}

// Columns returns all column names in import order.
func (t TitleTable) Columns() []string {
	return []string{t.ID, t.Label, t.Year, t.CategoryID}
}

// TitleGenreTable represents the 'yamdb.title_genre' join table
type TitleGenreTable struct {
	Table   string
	Name    string
	TitleID string
	GenreID string
}

// TitleGenre is the schema definition for yamdb.title_genre
var TitleGenre = TitleGenreTable{
	Table:   Name + ".title_genre",
	Name:    "title_genre",
	TitleID: "title_id",
	GenreID: "genre_id",
}

// Columns returns all column names in import order.
func (t TitleGenreTable) Columns() []string {
	return []string{t.TitleID, t.GenreID}
}
