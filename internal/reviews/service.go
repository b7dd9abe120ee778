// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reviews

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// ErrAlreadyReviewed is returned when an author reviews the same title twice.
var ErrAlreadyReviewed = apperr.ConflictField(FieldTitle, "You have already reviewed this title")

// Service implements review and comment use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new reviews [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Reviews

// ListReviews returns one page of a title's reviews.
func (service *Service) ListReviews(ctx context.Context, titleID int64, query ListQuery) ([]*Review, int, error) {
	if err := service.repository.TitleExists(ctx, titleID); err != nil {
		return nil, 0, err
	}
	query.ParentID = titleID
	return service.repository.ListReviews(ctx, query)
}

// GetReview returns a review of the given title.
func (service *Service) GetReview(ctx context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repository.FindReview(ctx, titleID, reviewID)
}

/*
CreateReview publishes the caller's review of a title.

Order of checks: authentication, payload, title existence, duplicate.

Returns:
  - error: 401 anonymous, VALIDATION_ERROR, NOT_FOUND (title), CONFLICT (duplicate)
*/
func (service *Service) CreateReview(ctx context.Context, caller access.Caller, titleID int64, input ReviewInput) (*Review, error) {
	if err := access.Authorize(caller, access.ActionCreate, access.Resource{Kind: access.KindReview}); err != nil {
		return nil, err
	}

	input.Text = strings.TrimSpace(input.Text)
	if err := validateReview(input.Text, input.Score); err != nil {
		return nil, err
	}

	if err := service.repository.TitleExists(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := service.repository.HasReview(ctx, titleID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := service.repository.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("author_id", caller.UserID),
	)
	return review, nil
}

// UpdateReview edits text and score. Only the author, a moderator or an admin may do so.
func (service *Service) UpdateReview(ctx context.Context, caller access.Caller, titleID, reviewID int64, patch ReviewPatch) (*Review, error) {
	review, err := service.authorizedReview(ctx, caller, access.ActionUpdate, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = strings.TrimSpace(*patch.Text)
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := validateReview(review.Text, review.Score); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "review_updated",
		slog.Int64("review_id", review.ID),
		slog.Int64("editor_id", caller.UserID),
	)
	return review, nil
}

// DeleteReview removes a review and its comments.
func (service *Service) DeleteReview(ctx context.Context, caller access.Caller, titleID, reviewID int64) error {
	review, err := service.authorizedReview(ctx, caller, access.ActionDelete, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := service.repository.DeleteReview(ctx, review.ID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("editor_id", caller.UserID),
	)
	return nil
}

// # Comments

// ListComments returns one page of a review's comments.
func (service *Service) ListComments(ctx context.Context, titleID, reviewID int64, query ListQuery) ([]*Comment, int, error) {
	if _, err := service.repository.FindReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	query.ParentID = reviewID
	return service.repository.ListComments(ctx, query)
}

// GetComment returns a comment, resolving the full title → review → comment chain.
func (service *Service) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repository.FindReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindComment(ctx, reviewID, commentID)
}

// CreateComment attaches the caller's comment to a review.
func (service *Service) CreateComment(ctx context.Context, caller access.Caller, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if err := access.Authorize(caller, access.ActionCreate, access.Resource{Kind: access.KindComment}); err != nil {
		return nil, err
	}

	input.Text = strings.TrimSpace(input.Text)
	if err := validateComment(input.Text); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Text:     input.Text,
	}
	if err := service.repository.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.Int64("author_id", caller.UserID),
	)
	return comment, nil
}

// UpdateComment edits the comment text.
func (service *Service) UpdateComment(ctx context.Context, caller access.Caller, titleID, reviewID, commentID int64, patch CommentPatch) (*Comment, error) {
	comment, err := service.authorizedComment(ctx, caller, access.ActionUpdate, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		comment.Text = strings.TrimSpace(*patch.Text)
	}
	if err := validateComment(comment.Text); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "comment_updated",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("editor_id", caller.UserID),
	)
	return comment, nil
}

// DeleteComment removes a comment.
func (service *Service) DeleteComment(ctx context.Context, caller access.Caller, titleID, reviewID, commentID int64) error {
	comment, err := service.authorizedComment(ctx, caller, access.ActionDelete, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := service.repository.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "comment_deleted",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("editor_id", caller.UserID),
	)
	return nil
}

// # Helpers

// authorizedReview loads a review and checks that caller may act on it.
// Anonymous callers are rejected before the lookup so they never learn whether it exists.
func (service *Service) authorizedReview(ctx context.Context, caller access.Caller, action access.Action, titleID, reviewID int64) (*Review, error) {
	if caller.Anonymous() {
		return nil, access.Authorize(caller, action, access.Resource{Kind: access.KindReview})
	}

	review, err := service.repository.FindReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(caller, action, access.Resource{Kind: access.KindReview, OwnerID: review.AuthorID}); err != nil {
		return nil, err
	}
	return review, nil
}

// authorizedComment loads a comment through its review and checks that caller may act on it.
func (service *Service) authorizedComment(ctx context.Context, caller access.Caller, action access.Action, titleID, reviewID, commentID int64) (*Comment, error) {
	if caller.Anonymous() {
		return nil, access.Authorize(caller, action, access.Resource{Kind: access.KindComment})
	}

	comment, err := service.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(caller, action, access.Resource{Kind: access.KindComment, OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}
	return comment, nil
}

func validateReview(text string, score int) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, text).
		Range(FieldScore, score, ScoreMin, ScoreMax)
	return validator.Err()
}

func validateComment(text string) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	return validator.Err()
}
