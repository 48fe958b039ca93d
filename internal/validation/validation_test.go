package validation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"ratingsvc/internal/platform/logger"
	"ratingsvc/internal/platform/metrics"
	"ratingsvc/internal/validation/cache"
)

type ValidationSuite struct {
	suite.Suite
	clock time.Time
	cache *cache.Cache
	m     *metrics.Metrics
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func (s *ValidationSuite) SetupTest() {
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.cache = cache.New(60*time.Second, time.Minute, cache.WithClock(func() time.Time { return s.clock }))
	s.m = metrics.New(prometheus.NewRegistry())
}

// fastConfig keeps retry backoff negligible so failure paths stay quick.
func fastConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Retries: 2,
		Backoff: time.Millisecond,
	}
}

func (s *ValidationSuite) newUserValidator(baseURL string) *UserValidator {
	v, err := NewUserValidator(fastConfig(baseURL), s.cache, logger.New("test"), s.m)
	s.Require().NoError(err)
	return v
}

func (s *ValidationSuite) newCourseValidator(baseURL string) *CourseValidator {
	v, err := NewCourseValidator(fastConfig(baseURL), s.cache, logger.New("test"), s.m)
	s.Require().NoError(err)
	return v
}

func (s *ValidationSuite) TestUserEligibility() {
	s.Run("active user is eligible", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"accountStatus":"ACTIVE"}`))
		}))
		defer srv.Close()

		s.True(s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
	})

	s.Run("suspended user is ineligible", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"accountStatus":"SUSPENDED"}`))
		}))
		defer srv.Close()

		s.False(s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
	})

	s.Run("404 means ineligible without retry", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s.False(s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
		s.Equal(int32(1), calls.Load())
	})
}

func (s *ValidationSuite) TestCredentialForwarding() {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"accountStatus":"ACTIVE"}`))
	}))
	defer srv.Close()

	s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), "caller-token")
	s.Equal("Bearer caller-token", gotAuth)
}

func (s *ValidationSuite) TestCacheIdempotence() {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"accountStatus":"ACTIVE"}`))
	}))
	defer srv.Close()

	v := s.newUserValidator(srv.URL)
	userID := uuid.New()

	s.Run("second call within ttl hits cache", func() {
		s.True(v.Validate(context.Background(), userID, ""))
		s.True(v.Validate(context.Background(), userID, ""))
		s.Equal(int32(1), calls.Load())
	})

	s.Run("call after expiry goes remote again", func() {
		s.clock = s.clock.Add(61 * time.Second)
		s.True(v.Validate(context.Background(), userID, ""))
		s.Equal(int32(2), calls.Load())
	})
}

func (s *ValidationSuite) TestFailClosed() {
	s.Run("retries transient errors then fails closed", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		v := s.newUserValidator(srv.URL)
		userID := uuid.New()

		s.False(v.Validate(context.Background(), userID, ""))
		// Initial attempt plus two retries.
		s.Equal(int32(3), calls.Load())

		// The failure is cached, so the next call stays local.
		s.False(v.Validate(context.Background(), userID, ""))
		s.Equal(int32(3), calls.Load())
	})

	s.Run("unreachable authority fails closed", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		s.False(s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
	})

	s.Run("recovers after one transient error", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"accountStatus":"ACTIVE"}`))
		}))
		defer srv.Close()

		s.True(s.newUserValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
		s.Equal(int32(2), calls.Load())
	})
}

func (s *ValidationSuite) TestCourseEligibility() {
	s.Run("existing course is eligible", func() {
		courseID := uuid.New()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"` + courseID.String() + `","title":"Distributed Systems"}`))
		}))
		defer srv.Close()

		s.True(s.newCourseValidator(srv.URL).Validate(context.Background(), courseID, ""))
	})

	s.Run("deleted course is ineligible", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s.False(s.newCourseValidator(srv.URL).Validate(context.Background(), uuid.New(), ""))
	})

	s.Run("user and course results do not collide in the cache", func() {
		entityID := uuid.New()
		userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer userSrv.Close()
		courseSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"` + entityID.String() + `"}`))
		}))
		defer courseSrv.Close()

		s.False(s.newUserValidator(userSrv.URL).Validate(context.Background(), entityID, ""))
		s.True(s.newCourseValidator(courseSrv.URL).Validate(context.Background(), entityID, ""))
	})
}
