package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ratings")
	t.Setenv("USER_SERVICE_URL", "http://user-service:8081")
	t.Setenv("COURSE_SERVICE_URL", "http://course-service:8082")
	t.Setenv("JWT_SIGNING_KEY", "test-signing-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8083", cfg.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "ratings", cfg.RatingsTopic)
	assert.Equal(t, "ratings-dlq", cfg.DeadLetterTopic)
	assert.Equal(t, 3, cfg.ValidatorRetries)
	assert.Equal(t, time.Second, cfg.ValidatorBackoff)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheSweepInterval)
}

func TestLoadRequiredVariables(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"missing database url", "DATABASE_URL"},
		{"missing user service url", "USER_SERVICE_URL"},
		{"missing course service url", "COURSE_SERVICE_URL"},
		{"missing jwt signing key", "JWT_SIGNING_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.unset)
		})
	}
}

func TestLoadBrokerList(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,broker-3:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092", "broker-3:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("VALIDATOR_RETRIES", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATOR_RETRIES")
}
