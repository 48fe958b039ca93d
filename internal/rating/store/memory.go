package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ratingsvc/internal/rating/models"
	"ratingsvc/pkg/platform/sentinel"
)

type pairKey struct {
	userID   uuid.UUID
	courseID uuid.UUID
}

// Memory is an in-memory Store for unit tests and local development. The
// single mutex gives the same atomicity the Postgres uniqueness constraint
// provides in production.
type Memory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]models.Rating
	byPair map[pairKey]uuid.UUID
	now    func() time.Time
}

// MemoryOption configures the Memory store.
type MemoryOption func(*Memory)

// WithClock substitutes the time source for deterministic timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		byID:   make(map[uuid.UUID]models.Rating),
		byPair: make(map[pairKey]uuid.UUID),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Upsert(ctx context.Context, userID, courseID uuid.UUID, value int) (models.Rating, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	key := pairKey{userID: userID, courseID: courseID}
	if id, ok := m.byPair[key]; ok {
		rating := m.byID[id]
		rating.RatingValue = value
		rating.UpdatedAt = now
		m.byID[id] = rating
		return rating, false, nil
	}

	rating := models.Rating{
		ID:          uuid.New(),
		UserID:      userID,
		CourseID:    courseID,
		RatingValue: value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.byID[rating.ID] = rating
	m.byPair[key] = rating.ID
	return rating, true, nil
}

func (m *Memory) FindByPair(ctx context.Context, userID, courseID uuid.UUID) (models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byPair[pairKey{userID: userID, courseID: courseID}]
	if !ok {
		return models.Rating{}, fmt.Errorf("rating for pair: %w", sentinel.ErrNotFound)
	}
	return m.byID[id], nil
}

func (m *Memory) FindByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rating, ok := m.byID[ratingID]
	if !ok {
		return models.Rating{}, fmt.Errorf("rating %s: %w", ratingID, sentinel.ErrNotFound)
	}
	return rating, nil
}

func (m *Memory) Query(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error) {
	m.mu.RLock()
	var matched []models.Rating
	for _, rating := range m.byID {
		if filter.UserID != nil && rating.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && rating.CourseID != *filter.CourseID {
			continue
		}
		matched = append(matched, rating)
	}
	m.mu.RUnlock()

	// Stable order to keep pagination deterministic, matching the Postgres
	// implementation.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return models.NewRatingPage(matched[start:end], page, total), nil
}
