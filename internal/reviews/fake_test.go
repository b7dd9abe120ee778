// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reviews_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/reviews"
)

// memoryReviews is an in-memory [reviews.Repository]. Uniqueness of
// (author, title) is enforced under the lock, like the storage constraint.
type memoryReviews struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	titles   map[int64]bool
	users    map[int64]string
	reviews  map[int64]*reviews.Review
	comments map[int64]*reviews.Comment
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{
		clock:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		titles:   map[int64]bool{10: true, 20: true},
		users:    map[int64]string{1: "admin", 2: "mod", 3: "bob", 4: "alice"},
		reviews:  map[int64]*reviews.Review{},
		comments: map[int64]*reviews.Comment{},
		nextID:   100,
	}
}

func (m *memoryReviews) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryReviews) TitleExists(_ context.Context, titleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.titles[titleID] {
		return apperr.NotFound("Title")
	}
	return nil
}

func (m *memoryReviews) ListReviews(_ context.Context, query reviews.ListQuery) ([]*reviews.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*reviews.Review
	for _, review := range m.reviews {
		if review.TitleID == query.ParentID {
			clone := *review
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	return page(matched, query.Page.Offset(), query.Page.Limit), len(matched), nil
}

func (m *memoryReviews) FindReview(_ context.Context, titleID, reviewID int64) (*reviews.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *review
	return &clone, nil
}

func (m *memoryReviews) HasReview(_ context.Context, titleID, authorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasReview(titleID, authorID), nil
}

func (m *memoryReviews) hasReview(titleID, authorID int64) bool {
	for _, review := range m.reviews {
		if review.TitleID == titleID && review.AuthorID == authorID {
			return true
		}
	}
	return false
}

func (m *memoryReviews) CreateReview(_ context.Context, review *reviews.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasReview(review.TitleID, review.AuthorID) {
		return apperr.ConflictField("title", "You have already reviewed this title")
	}
	m.nextID++
	review.ID = m.nextID
	review.Author = m.users[review.AuthorID]
	review.PubDate = m.tick()
	clone := *review
	m.reviews[review.ID] = &clone
	return nil
}

func (m *memoryReviews) UpdateReview(_ context.Context, review *reviews.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.reviews[review.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text = review.Text
	stored.Score = review.Score
	return nil
}

func (m *memoryReviews) DeleteReview(_ context.Context, reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(m.reviews, reviewID)
	for id, comment := range m.comments {
		if comment.ReviewID == reviewID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *memoryReviews) ListComments(_ context.Context, query reviews.ListQuery) ([]*reviews.Comment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*reviews.Comment
	for _, comment := range m.comments {
		if comment.ReviewID == query.ParentID {
			clone := *comment
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	return page(matched, query.Page.Offset(), query.Page.Limit), len(matched), nil
}

func (m *memoryReviews) FindComment(_ context.Context, reviewID, commentID int64) (*reviews.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *comment
	return &clone, nil
}

func (m *memoryReviews) CreateComment(_ context.Context, comment *reviews.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	comment.ID = m.nextID
	comment.Author = m.users[comment.AuthorID]
	comment.PubDate = m.tick()
	clone := *comment
	m.comments[comment.ID] = &clone
	return nil
}

func (m *memoryReviews) UpdateComment(_ context.Context, comment *reviews.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.comments[comment.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Text = comment.Text
	return nil
}

func (m *memoryReviews) DeleteComment(_ context.Context, commentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(m.comments, commentID)
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
