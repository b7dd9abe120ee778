// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reviews manages user-generated feedback on titles.

# Ownership

A [Review] belongs to one title and one author; a [Comment] belongs to one
review and one author. Every read or write resolves the parent chain from the
URL first, so a review addressed under the wrong title is reported as missing.

# Invariants

  - An author reviews a title at most once. The service pre-check is advisory;
    the review_author_title_key constraint decides races.
  - Scores are integers in [ScoreMin, ScoreMax].
  - Author and publication date are set by the server and never change.
*/
package reviews

import (
	"time"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	ScoreMin = 1
	ScoreMax = 10
)

// Field names reported in validation and conflict details.
const (
	FieldText  = "text"
	FieldScore = "score"
	FieldTitle = "title"
)

// Resource names used in NOT_FOUND messages.
const (
	resourceTitle   = "Title"
	resourceReview  = "Review"
	resourceComment = "Comment"
)

// Review is a scored opinion about a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply attached to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// ReviewInput is the create payload.
type ReviewInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// ReviewPatch is the partial update payload.
type ReviewPatch struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// CommentInput is the create payload.
type CommentInput struct {
	Text string `json:"text"`
}

// CommentPatch is the partial update payload.
type CommentPatch struct {
	Text *string `json:"text"`
}

// ListQuery scopes a listing to its parent.
type ListQuery struct {
	ParentID int64
	Page     pagination.Params
}
