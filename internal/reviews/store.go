// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reviews

import "context"

// Repository defines the data access contract for reviews and comments.
type Repository interface {

	// TitleExists returns NOT_FOUND when no title has the ID.
	TitleExists(context context.Context, titleID int64) error

	// ListReviews returns one page of a title's reviews, newest first.
	ListReviews(context context.Context, query ListQuery) ([]*Review, int, error)

	/*
		FindReview returns a review scoped to its title.

		Returns:
		  - error: NOT_FOUND if the review does not exist or belongs to another title
	*/
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)

	// HasReview reports whether the author already reviewed the title.
	HasReview(context context.Context, titleID, authorID int64) (bool, error)

	/*
		CreateReview inserts a review and fills in ID, Author and PubDate.

		Returns:
		  - error: CONFLICT on "title" when the (author, title) pair exists
	*/
	CreateReview(context context.Context, review *Review) error

	// UpdateReview persists text and score.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes a review; its comments cascade.
	DeleteReview(context context.Context, reviewID int64) error

	// ListComments returns one page of a review's comments, newest first.
	ListComments(context context.Context, query ListQuery) ([]*Comment, int, error)

	// FindComment returns a comment scoped to its review.
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment inserts a comment and fills in ID, Author and PubDate.
	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment persists the comment text.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment.
	DeleteComment(context context.Context, commentID int64) error
}
