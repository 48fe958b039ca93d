package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a user's score for a course. At most one Rating exists per
// (user, course) pair; resubmissions mutate the existing record in place.
type Rating struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CourseID    uuid.UUID
	RatingValue int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RatingFilter narrows a ratings query. Nil fields are not applied; both set
// means AND.
type RatingFilter struct {
	UserID   *uuid.UUID
	CourseID *uuid.UUID
}

// PageRequest is zero-based offset pagination.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the row offset for the request.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// RatingPage is one page of results plus totals.
type RatingPage struct {
	Content       []Rating
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewRatingPage assembles a page envelope, deriving TotalPages from the size.
func NewRatingPage(content []Rating, req PageRequest, total int64) RatingPage {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return RatingPage{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
