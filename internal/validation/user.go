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

// Validator reports whether an entity may be referenced by a submission.
type Validator interface {
	Validate(ctx context.Context, entityID uuid.UUID, credential string) bool
}

// UserValidator checks a user against the user service. A user is eligible
// when the lookup succeeds and the account status is ACTIVE.
type UserValidator struct {
	client  *authorityClient
	cache   *cache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewUserValidator(cfg Config, c *cache.Cache, logger *slog.Logger, m *metrics.Metrics) (*UserValidator, error) {
	client, err := newAuthorityClient(cfg)
	if err != nil {
		return nil, err
	}
	return &UserValidator{client: client, cache: c, logger: logger, metrics: m}, nil
}

func (v *UserValidator) Validate(ctx context.Context, userID uuid.UUID, credential string) bool {
	key := "user:" + userID.String()
	if val, ok := v.cache.Get(key); ok {
		v.metrics.ValidationCacheHits.WithLabelValues("user").Inc()
		return val
	}
	v.metrics.ValidationCacheMisses.WithLabelValues("user").Inc()

	eligible, err := v.client.check(ctx, "/api/v1/users/"+userID.String(), credential, decodeUser)
	if err != nil {
		// Fail closed: uncertainty is treated the same as ineligible.
		v.logger.WarnContext(ctx, "user validation failed closed",
			"user_id", userID,
			"error", err,
		)
		eligible = false
	}
	v.cache.Put(key, eligible)
	return eligible
}

func decodeUser(r io.Reader) (bool, error) {
	var payload struct {
		AccountStatus string `json:"accountStatus"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return false, err
	}
	return payload.AccountStatus == "ACTIVE", nil
}
