// Package store provides durable keyed storage for ratings. The uniqueness of
// the (user, course) pair is enforced here, at the storage layer, so that
// concurrent submissions for the same pair can never produce two rows.
package store

import (
	"context"

	"github.com/google/uuid"

	"ratingsvc/internal/rating/models"
)

// Store is the rating persistence contract. Implementations return
// sentinel.ErrNotFound (optionally wrapped) for lookup misses.
type Store interface {
	// Upsert inserts a rating for the pair or mutates the existing one
	// (last-write-wins on value and updated timestamp). The boolean reports
	// whether a new record was created.
	Upsert(ctx context.Context, userID, courseID uuid.UUID, value int) (models.Rating, bool, error)

	FindByPair(ctx context.Context, userID, courseID uuid.UUID) (models.Rating, error)
	FindByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error)
	Query(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error)
}
