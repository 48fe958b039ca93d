package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Addr            string
	DatabaseURL     string
	KafkaBrokers    []string
	RatingsTopic    string
	DeadLetterTopic string

	UserServiceURL   string
	CourseServiceURL string

	ValidatorTimeout time.Duration
	ValidatorRetries int
	ValidatorBackoff time.Duration

	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	JWTSigningKey string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults and
// validation so main stays lean.
func Load() (Config, error) {
	cfg := Config{
		Addr:               getEnv("RATING_SERVICE_ADDR", ":8083"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		RatingsTopic:       getEnv("KAFKA_RATINGS_TOPIC", "ratings"),
		DeadLetterTopic:    getEnv("KAFKA_RATINGS_DLQ_TOPIC", "ratings-dlq"),
		UserServiceURL:     os.Getenv("USER_SERVICE_URL"),
		CourseServiceURL:   os.Getenv("COURSE_SERVICE_URL"),
		ValidatorTimeout:   getEnvSecs("VALIDATOR_TIMEOUT_SECS", 5),
		ValidatorRetries:   getEnvInt("VALIDATOR_RETRIES", 3),
		ValidatorBackoff:   getEnvSecs("VALIDATOR_BACKOFF_SECS", 1),
		CacheTTL:           getEnvSecs("VALIDATION_CACHE_TTL_SECS", 60),
		CacheSweepInterval: getEnvSecs("VALIDATION_CACHE_SWEEP_SECS", 60),
		JWTSigningKey:      os.Getenv("JWT_SIGNING_KEY"),
		ShutdownTimeout:    getEnvSecs("SHUTDOWN_TIMEOUT_SECS", 10),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.UserServiceURL == "" {
		return Config{}, fmt.Errorf("USER_SERVICE_URL is required")
	}
	if cfg.CourseServiceURL == "" {
		return Config{}, fmt.Errorf("COURSE_SERVICE_URL is required")
	}
	if cfg.JWTSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required")
	}
	if cfg.ValidatorRetries < 0 {
		return Config{}, fmt.Errorf("VALIDATOR_RETRIES must be non-negative")
	}
	if cfg.ValidatorTimeout <= 0 {
		return Config{}, fmt.Errorf("VALIDATOR_TIMEOUT_SECS must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("VALIDATION_CACHE_TTL_SECS must be positive")
	}
	if cfg.CacheSweepInterval <= 0 {
		return Config{}, fmt.Errorf("VALIDATION_CACHE_SWEEP_SECS must be positive")
	}

	return cfg, nil
}

// ConsumerConfig is the subset of configuration the dead-letter consumer
// needs. It deliberately skips the server-only variables so the consumer can
// run without database or signing key access.
type ConsumerConfig struct {
	KafkaBrokers    []string
	DeadLetterTopic string
}

// LoadConsumer reads dead-letter consumer configuration from the environment.
func LoadConsumer() (ConsumerConfig, error) {
	cfg := ConsumerConfig{
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		DeadLetterTopic: getEnv("KAFKA_RATINGS_DLQ_TOPIC", "ratings-dlq"),
	}
	if len(cfg.KafkaBrokers) == 0 {
		return ConsumerConfig{}, fmt.Errorf("KAFKA_BROKERS is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvSecs(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
