// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reviews

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/catalog"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	reviewIDParam  = "reviewID"
	commentIDParam = "commentID"
)

// Handler implements the nested review and comment endpoints.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new reviews [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

/*
Routes returns the router mounted at /titles/{titleID}/reviews.

# Endpoints
  - GET, POST /                                          : Reviews of a title
  - GET, PATCH, DELETE /{reviewID}                        : One review
  - GET, POST /{reviewID}/comments                        : Comments of a review
  - GET, PATCH, DELETE /{reviewID}/comments/{commentID}   : One comment

Reads are public. Writes require authentication; edits and deletes also
require authorship or a moderator/admin role, checked in the service.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)

	router.Route("/{reviewID}", func(r chi.Router) {
		r.Get("/", handler.getReview)
		r.Patch("/", handler.updateReview)
		r.Delete("/", handler.deleteReview)

		r.Get("/comments", handler.listComments)
		r.Post("/comments", handler.createComment)
		r.Get("/comments/{commentID}", handler.getComment)
		r.Patch("/comments/{commentID}", handler.updateComment)
		r.Delete("/comments/{commentID}", handler.deleteComment)
	})

	return router
}

// # Path Resolution

// path holds the parsed identifiers of a nested route.
type path struct {
	titleID   int64
	reviewID  int64
	commentID int64
}

// parsePath reads the title ID and, depending on depth, the review and comment IDs.
// A malformed identifier is reported as NOT_FOUND for its resource.
func parsePath(request *http.Request, depth int) (path, error) {
	var (
		parsed path
		err    error
	)

	if parsed.titleID, err = requestutil.ID(request, catalog.TitleIDParam, resourceTitle); err != nil {
		return parsed, err
	}
	if depth > 1 {
		if parsed.reviewID, err = requestutil.ID(request, reviewIDParam, resourceReview); err != nil {
			return parsed, err
		}
	}
	if depth > 2 {
		if parsed.commentID, err = requestutil.ID(request, commentIDParam, resourceComment); err != nil {
			return parsed, err
		}
	}
	return parsed, nil
}

// # Reviews

// GET /api/v1/titles/{titleID}/reviews?page=&limit=.
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	reviews, total, err := handler.reviewService.ListReviews(request.Context(), ids.titleID, ListQuery{Page: page})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(page, total))
}

/*
POST /api/v1/titles/{titleID}/reviews.

Response:
  - 201: Review
  - 400: Text missing or score outside 1..10
  - 401: Authentication required
  - 404: Title not found
  - 409: The caller already reviewed this title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ReviewInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), requestutil.Caller(request), ids.titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.GetReview(request.Context(), ids.titleID, ids.reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

// PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch ReviewPatch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), requestutil.Caller(request), ids.titleID, ids.reviewID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(request.Context(), requestutil.Caller(request), ids.titleID, ids.reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comments

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments?page=&limit=.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	comments, total, err := handler.reviewService.ListComments(request.Context(), ids.titleID, ids.reviewID, ListQuery{Page: page})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(page, total))
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 201: Comment
  - 400: Text missing
  - 401: Authentication required
  - 404: Title or review not found
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommentInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(), requestutil.Caller(request), ids.titleID, ids.reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.GetComment(request.Context(), ids.titleID, ids.reviewID, ids.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch CommentPatch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(), requestutil.Caller(request), ids.titleID, ids.reviewID, ids.commentID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.reviewService.DeleteComment(request.Context(), requestutil.Caller(request), ids.titleID, ids.reviewID, ids.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
