package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratingsvc/internal/rating/models"
)

func TestNewRatingSubmitted(t *testing.T) {
	rating := models.Rating{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		CourseID:    uuid.New(),
		RatingValue: 4,
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now(),
	}

	before := time.Now().UTC()
	event := NewRatingSubmitted(rating)
	after := time.Now().UTC()

	assert.Equal(t, rating.ID, event.RatingID)
	assert.Equal(t, rating.UserID, event.UserID)
	assert.Equal(t, rating.CourseID, event.CourseID)
	assert.Equal(t, rating.RatingValue, event.RatingValue)
	assert.False(t, event.SubmittedAt.Before(before))
	assert.False(t, event.SubmittedAt.After(after))
}

func TestRatingSubmittedEventWireFormat(t *testing.T) {
	event := RatingSubmittedEvent{
		RatingID:    uuid.New(),
		UserID:      uuid.New(),
		CourseID:    uuid.New(),
		RatingValue: 5,
		SubmittedAt: time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("uses the stable snake_case keys", func(t *testing.T) {
		var raw map[string]any
		require.NoError(t, json.Unmarshal(payload, &raw))
		for _, key := range []string{"rating_id", "user_id", "course_id", "rating_value", "submitted_at"} {
			assert.Contains(t, raw, key)
		}
		assert.Len(t, raw, 5)
		assert.Equal(t, "2026-03-01T12:30:45Z", raw["submitted_at"])
	})

	t.Run("round-trips losslessly", func(t *testing.T) {
		var decoded RatingSubmittedEvent
		require.NoError(t, json.Unmarshal(payload, &decoded))

		assert.Equal(t, event.RatingID, decoded.RatingID)
		assert.Equal(t, event.UserID, decoded.UserID)
		assert.Equal(t, event.CourseID, decoded.CourseID)
		assert.Equal(t, event.RatingValue, decoded.RatingValue)
		assert.True(t, event.SubmittedAt.Equal(decoded.SubmittedAt))
	})
}
