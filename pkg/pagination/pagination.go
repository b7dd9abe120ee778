// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pagination parses list windows from the query string and builds the
"meta" block of paginated responses.

Two request styles are accepted on every list endpoint:

	?page=2&limit=10     page-number style
	?offset=30&limit=10  offset style; offset wins when both are given

Malformed or out-of-range values fall back to the defaults rather than
failing the request.
*/
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params is the requested window.
type Params struct {
	Page  int
	Limit int

	// Skip is an explicit row offset. Zero means "derive from Page".
	Skip int
}

// Offset returns the SQL OFFSET for the window.
func (p Params) Offset() int {
	if p.Skip > 0 {
		return p.Skip
	}
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes the window p over a result set of total rows.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	offset := p.Offset()
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Offset:     offset,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    offset+p.Limit < total,
	}
}

// FromRequest reads "page", "offset" and "limit" from the query string.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	limit := intParam(query.Get("limit"), DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if skip := intParam(query.Get("offset"), 0); skip > 0 {
		return Params{Page: skip/limit + 1, Limit: limit, Skip: skip}
	}

	page := intParam(query.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	return Params{Page: page, Limit: limit}
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
