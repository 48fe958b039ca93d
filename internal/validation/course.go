package validation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"ratingsvc/internal/platform/metrics"
	"ratingsvc/internal/validation/cache"
)

// CourseValidator checks a course against the course service. Existence is
// enough: the course service's own lookup already excludes soft-deleted
// courses with a 404.
type CourseValidator struct {
	client  *authorityClient
	cache   *cache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewCourseValidator(cfg Config, c *cache.Cache, logger *slog.Logger, m *metrics.Metrics) (*CourseValidator, error) {
	client, err := newAuthorityClient(cfg)
	if err != nil {
		return nil, err
	}
	return &CourseValidator{client: client, cache: c, logger: logger, metrics: m}, nil
}

func (v *CourseValidator) Validate(ctx context.Context, courseID uuid.UUID, credential string) bool {
	key := "course:" + courseID.String()
	if val, ok := v.cache.Get(key); ok {
		v.metrics.ValidationCacheHits.WithLabelValues("course").Inc()
		return val
	}
	v.metrics.ValidationCacheMisses.WithLabelValues("course").Inc()

	eligible, err := v.client.check(ctx, "/api/v1/courses/"+courseID.String(), credential, decodeCourse)
	if err != nil {
		v.logger.WarnContext(ctx, "course validation failed closed",
			"course_id", courseID,
			"error", err,
		)
		eligible = false
	}
	v.cache.Put(key, eligible)
	return eligible
}

func decodeCourse(r io.Reader) (bool, error) {
	var payload struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return false, err
	}
	return true, nil
}
