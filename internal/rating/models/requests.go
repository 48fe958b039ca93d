package models

import "github.com/google/uuid"

// SubmitRatingRequest is the POST /api/v1/ratings body. The acting user comes
// from the verified bearer token, never from the body.
type SubmitRatingRequest struct {
	CourseID    uuid.UUID `json:"courseId" validate:"required"`
	RatingValue int       `json:"ratingValue" validate:"required,min=1,max=5"`
}
