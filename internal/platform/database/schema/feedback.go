// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReviewTable represents the 'yamdb.review' table
type ReviewTable struct {
	Table    string
	Name     string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// Review is the schema definition for yamdb.review
var Review = ReviewTable{
	Table:    Name + ".review",
	Name:     "review",
	ID:       "id",
	TitleID:  "title_id",
	AuthorID: "author_id",
	Text:     "text",
	Score:    "score",
	PubDate:  "pub_date",
}

// Columns returns all column names in import order.
func (t ReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.Text, t.AuthorID, t.Score, t.PubDate}
}

// CommentTable represents the 'yamdb.comment' table
type CommentTable struct {
	Table    string
	Name     string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// Comment is the schema definition for yamdb.comment
var Comment = CommentTable{
	Table:    Name + ".comment",
	Name:     "comment",
	ID:       "id",
	ReviewID: "review_id",
	AuthorID: "author_id",
	Text:     "text",
	PubDate:  "pub_date",
}

// Columns returns all column names in import order.
func (t CommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.Text, t.AuthorID, t.PubDate}
}
