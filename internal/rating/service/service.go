// Package service orchestrates the rating submission workflow: validate the
// value, check both remote authorities, upsert durably, then announce the
// change. Only the upsert decides the caller's outcome; event publication is
// best effort.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ratingsvc/internal/events"
	"ratingsvc/internal/platform/metrics"
	"ratingsvc/internal/rating/models"
	"ratingsvc/internal/validation"
	dErrors "ratingsvc/pkg/domain-errors"
	"ratingsvc/pkg/platform/sentinel"
)

const (
	ratingMin = 1
	ratingMax = 5
)

var tracer = otel.Tracer("ratingsvc/rating")

// Store is the persistence surface the orchestrator needs.
type Store interface {
	Upsert(ctx context.Context, userID, courseID uuid.UUID, value int) (models.Rating, bool, error)
	FindByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error)
	Query(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error)
}

// EventPublisher announces a successful submission without blocking.
type EventPublisher interface {
	Publish(event events.RatingSubmittedEvent)
}

// Service composes validators, store, and publisher into the submission and
// read workflows.
type Service struct {
	store   Store
	users   validation.Validator
	courses validation.Validator
	events  EventPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store Store, users, courses validation.Validator, publisher EventPublisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		users:   users,
		courses: courses,
		events:  publisher,
		logger:  logger,
		metrics: m,
	}
}

// SubmitRating runs the submission workflow for the authenticated user. The
// raw credential is forwarded unchanged to the remote authorities. A returned
// Rating means the write is durable regardless of what happens to the event.
func (s *Service) SubmitRating(ctx context.Context, userID, courseID uuid.UUID, value int, credential string) (models.Rating, error) {
	ctx, span := tracer.Start(ctx, "rating.submit", trace.WithAttributes(
		attribute.String("rating.user_id", userID.String()),
		attribute.String("rating.course_id", courseID.String()),
		attribute.Int("rating.value", value),
	))
	defer span.End()

	if value < ratingMin || value > ratingMax {
		s.metrics.SubmissionsTotal.WithLabelValues("invalid_value").Inc()
		return models.Rating{}, dErrors.NewWithDetails(dErrors.CodeInvalidRatingValue,
			"rating value must be between 1 and 5",
			map[string]any{"ratingValue": value})
	}

	if !s.users.Validate(ctx, userID, credential) {
		s.metrics.SubmissionsTotal.WithLabelValues("user_ineligible").Inc()
		return models.Rating{}, dErrors.New(dErrors.CodeUserIneligible, "user not found or inactive")
	}

	if !s.courses.Validate(ctx, courseID, credential) {
		s.metrics.SubmissionsTotal.WithLabelValues("course_ineligible").Inc()
		return models.Rating{}, dErrors.NewWithDetails(dErrors.CodeCourseIneligible,
			"course not found or deleted",
			map[string]any{"courseId": courseID.String()})
	}

	rating, created, err := s.store.Upsert(ctx, userID, courseID, value)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist rating",
			"user_id", userID,
			"course_id", courseID,
			"error", err,
		)
		s.metrics.SubmissionsTotal.WithLabelValues("store_error").Inc()
		return models.Rating{}, dErrors.New(dErrors.CodeInternal, "failed to persist rating")
	}

	// The write is durable; the announcement must not change the outcome.
	s.events.Publish(events.NewRatingSubmitted(rating))

	s.logger.InfoContext(ctx, "rating submitted",
		"rating_id", rating.ID,
		"user_id", userID,
		"course_id", courseID,
		"rating_value", value,
		"created", created,
	)
	s.metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	return rating, nil
}

// GetRatings delegates to the store with no validation.
func (s *Service) GetRatings(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error) {
	result, err := s.store.Query(ctx, filter, page)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query ratings", "error", err)
		return models.RatingPage{}, dErrors.New(dErrors.CodeInternal, "failed to query ratings")
	}
	return result, nil
}

// GetRatingByID delegates to the store with no validation.
func (s *Service) GetRatingByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error) {
	rating, err := s.store.FindByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Rating{}, dErrors.NewWithDetails(dErrors.CodeRatingNotFound,
				"rating not found",
				map[string]any{"ratingId": ratingID.String()})
		}
		s.logger.ErrorContext(ctx, "failed to load rating", "rating_id", ratingID, "error", err)
		return models.Rating{}, dErrors.New(dErrors.CodeInternal, "failed to load rating")
	}
	return rating, nil
}
