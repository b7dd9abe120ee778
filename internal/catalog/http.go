// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	querystr "github.com/taibuivan/yamdb/pkg/query"
)

// TitleIDParam is the URL parameter carrying a title ID, shared with nested routers.
const TitleIDParam = "titleID"

// Handler implements the /categories, /genres and /titles endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// # Routing

// CategoryRoutes returns the /categories router.
func (handler *Handler) CategoryRoutes() chi.Router {
	return handler.referenceRoutes(TaxonomyCategory)
}

// GenreRoutes returns the /genres router.
func (handler *Handler) GenreRoutes() chi.Router {
	return handler.referenceRoutes(TaxonomyGenre)
}

/*
referenceRoutes builds the shared taxonomy router.

# Endpoints
  - GET /          : List (public)
  - POST /         : Create (admin)
  - DELETE /{slug} : Delete (admin)
*/
func (handler *Handler) referenceRoutes(taxonomy Taxonomy) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(access.KindCatalog))

	router.Get("/", handler.listReferences(taxonomy))
	router.Post("/", handler.createReference(taxonomy))
	router.Delete("/{slug}", handler.deleteReference(taxonomy))

	return router
}

/*
TitleRoutes returns the /titles router. The reviews router, when given, is
mounted under /{titleID}/reviews.

# Endpoints
  - GET, POST /                  : List (public), create (admin)
  - GET, PATCH, DELETE /{titleID} : Read (public), update and delete (admin)
*/
func (handler *Handler) TitleRoutes(reviews http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(access.KindCatalog))
		r.Get("/", handler.listTitles)
		r.Post("/", handler.createTitle)
		r.Get("/{titleID}", handler.getTitle)
		r.Patch("/{titleID}", handler.updateTitle)
		r.Delete("/{titleID}", handler.deleteTitle)
	})

	if reviews != nil {
		router.Mount("/{titleID}/reviews", reviews)
	}

	return router
}

// # Categories & Genres

// GET /api/v1/{categories|genres}?search=&page=&limit=.
func (handler *Handler) listReferences(taxonomy Taxonomy) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		page := pagination.FromRequest(request)
		references, total, err := handler.catalogService.ListReferences(request.Context(), taxonomy, ReferenceFilter{
			Search: request.URL.Query().Get("search"),
			Page:   page,
		})
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Paginated(writer, references, pagination.NewMeta(page, total))
	}
}

/*
POST /api/v1/{categories|genres}.

Response:
  - 201: {name, slug}
  - 400: Validation failure
  - 409: Slug taken
*/
func (handler *Handler) createReference(taxonomy Taxonomy) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input ReferenceInput
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		reference, err := handler.catalogService.CreateReference(request.Context(), taxonomy, input)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, reference)
	}
}

// DELETE /api/v1/{categories|genres}/{slug}.
func (handler *Handler) deleteReference(taxonomy Taxonomy) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := handler.catalogService.DeleteReference(request.Context(), taxonomy, requestutil.Param(request, "slug")); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

// # Titles

/*
GET /api/v1/titles?name=&genre=&category=&year=&page=&limit=.

The genre parameter accepts a comma-separated list of slugs.

Response:
  - 200: Paginated titles
  - 400: year is not an integer
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	page := pagination.FromRequest(request)

	filter := TitleFilter{
		Name:     query.Get("name"),
		Genres:   querystr.StringSlice(query.Get("genre")),
		Category: query.Get("category"),
		Page:     page,
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, validate.FieldErr(FieldYear, "Must be an integer"))
			return
		}
		filter.Year = &year
	}

	titles, total, err := handler.catalogService.ListTitles(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, pagination.NewMeta(page, total))
}

// GET /api/v1/titles/{titleID}.
func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, TitleIDParam, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.GetTitle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Response:
  - 201: Title
  - 400: Validation failure or unknown genre/category slug
*/
func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input TitleInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.CreateTitle(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

// PATCH /api/v1/titles/{titleID}.
func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, TitleIDParam, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch TitlePatch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.catalogService.UpdateTitle(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

// DELETE /api/v1/titles/{titleID}.
func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, TitleIDParam, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalogService.DeleteTitle(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
