//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ratingsvc/internal/rating/models"
	"ratingsvc/internal/rating/store"
	"ratingsvc/pkg/platform/sentinel"
	"ratingsvc/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Pool.Close()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "ratings"))
}

func (s *PostgresStoreSuite) TestUpsert() {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	created, wasCreated, err := s.store.Upsert(ctx, userID, courseID, 3)
	s.Require().NoError(err)
	s.True(wasCreated)
	s.Equal(3, created.RatingValue)
	s.NotEqual(uuid.Nil, created.ID)

	updated, wasCreated, err := s.store.Upsert(ctx, userID, courseID, 5)
	s.Require().NoError(err)
	s.False(wasCreated)
	s.Equal(created.ID, updated.ID)
	s.Equal(5, updated.RatingValue)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))
}

func (s *PostgresStoreSuite) TestUpsertRejectsOutOfRangeValue() {
	_, _, err := s.store.Upsert(context.Background(), uuid.New(), uuid.New(), 9)
	s.Require().Error(err)
}

// TestConcurrentUpsertsSamePair verifies the unique constraint funnels racing
// writers onto a single row.
func (s *PostgresStoreSuite) TestConcurrentUpsertsSamePair() {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()
	const goroutines = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, _, err := s.store.Upsert(ctx, userID, courseID, value%5+1)
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	page, err := s.store.Query(ctx, models.RatingFilter{UserID: &userID}, models.PageRequest{Size: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), page.TotalElements)
}

func (s *PostgresStoreSuite) TestLookups() {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	created, _, err := s.store.Upsert(ctx, userID, courseID, 4)
	s.Require().NoError(err)

	s.Run("by id", func() {
		found, err := s.store.FindByID(ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, found.ID)
	})

	s.Run("by pair", func() {
		found, err := s.store.FindByPair(ctx, userID, courseID)
		s.Require().NoError(err)
		s.Equal(created.ID, found.ID)
	})

	s.Run("misses map to sentinel", func() {
		_, err := s.store.FindByID(ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByPair(ctx, uuid.New(), uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestQuery() {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	_, _, err := s.store.Upsert(ctx, userID, courseID, 5)
	s.Require().NoError(err)
	_, _, err = s.store.Upsert(ctx, userID, uuid.New(), 2)
	s.Require().NoError(err)
	_, _, err = s.store.Upsert(ctx, uuid.New(), courseID, 1)
	s.Require().NoError(err)

	s.Run("no filter returns everything", func() {
		page, err := s.store.Query(ctx, models.RatingFilter{}, models.PageRequest{Size: 10})
		s.Require().NoError(err)
		s.Equal(int64(3), page.TotalElements)
	})

	s.Run("filters compose with AND", func() {
		page, err := s.store.Query(ctx, models.RatingFilter{UserID: &userID, CourseID: &courseID}, models.PageRequest{Size: 10})
		s.Require().NoError(err)
		s.Require().Len(page.Content, 1)
		s.Equal(5, page.Content[0].RatingValue)
	})

	s.Run("pagination reports totals", func() {
		page, err := s.store.Query(ctx, models.RatingFilter{}, models.PageRequest{Page: 0, Size: 2})
		s.Require().NoError(err)
		s.Len(page.Content, 2)
		s.Equal(int64(3), page.TotalElements)
		s.Equal(2, page.TotalPages)
	})
}
