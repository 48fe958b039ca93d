package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingResponse is the wire shape of a single rating.
type RatingResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	CourseID    uuid.UUID `json:"courseId"`
	RatingValue int       `json:"ratingValue"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewRatingResponse converts a domain Rating into its wire shape.
func NewRatingResponse(r Rating) RatingResponse {
	return RatingResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		CourseID:    r.CourseID,
		RatingValue: r.RatingValue,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RatingPageResponse is the list envelope.
type RatingPageResponse struct {
	Content       []RatingResponse `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

// NewRatingPageResponse converts a domain page into its wire shape.
func NewRatingPageResponse(page RatingPage) RatingPageResponse {
	content := make([]RatingResponse, 0, len(page.Content))
	for _, r := range page.Content {
		content = append(content, NewRatingResponse(r))
	}
	return RatingPageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
