// Package events announces successful rating submissions on the broker. The
// write to the rating store and the announcement are deliberately decoupled:
// the caller gets its result before the broker is involved, delivery is
// at-least-once, and a failed publish falls back to the dead-letter topic.
package events

import (
	"time"

	"github.com/google/uuid"

	"ratingsvc/internal/rating/models"
)

// RatingSubmittedEvent is the immutable snapshot emitted once per successful
// store upsert. Field names are the stable wire contract consumed by the
// recommendation pipeline.
type RatingSubmittedEvent struct {
	RatingID    uuid.UUID `json:"rating_id"`
	UserID      uuid.UUID `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	RatingValue int       `json:"rating_value"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewRatingSubmitted snapshots a persisted rating. The submission timestamp
// is assigned here, at construction.
func NewRatingSubmitted(rating models.Rating) RatingSubmittedEvent {
	return RatingSubmittedEvent{
		RatingID:    rating.ID,
		UserID:      rating.UserID,
		CourseID:    rating.CourseID,
		RatingValue: rating.RatingValue,
		SubmittedAt: time.Now().UTC(),
	}
}
