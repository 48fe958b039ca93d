package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ratingsvc/internal/rating/models"
	"ratingsvc/pkg/platform/sentinel"
)

// Postgres is the durable Store. The unique index on (user_id, course_id) is
// the backstop against racing upserts for the same pair.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS ratings (
    id           uuid PRIMARY KEY,
    user_id      uuid NOT NULL,
    course_id    uuid NOT NULL,
    rating_value integer NOT NULL CHECK (rating_value BETWEEN 1 AND 5),
    created_at   timestamptz NOT NULL DEFAULT now(),
    updated_at   timestamptz NOT NULL DEFAULT now(),
    UNIQUE (user_id, course_id)
)`

// EnsureSchema creates the ratings table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure ratings schema: %w", err)
	}
	return nil
}

func (p *Postgres) Upsert(ctx context.Context, userID, courseID uuid.UUID, value int) (models.Rating, bool, error) {
	// The conflict clause turns the insert into the in-place update, so the
	// read-then-write race never surfaces to callers. xmax = 0 distinguishes
	// a fresh insert from an updated row.
	const query = `
        INSERT INTO ratings (id, user_id, course_id, rating_value)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, course_id)
        DO UPDATE SET rating_value = EXCLUDED.rating_value, updated_at = now()
        RETURNING id, user_id, course_id, rating_value, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating models.Rating
	var inserted bool
	err := p.pool.QueryRow(ctx, query, uuid.New(), userID, courseID, value).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.CourseID,
		&rating.RatingValue,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return models.Rating{}, false, fmt.Errorf("upsert rating: %w", err)
	}
	return rating, inserted, nil
}

func (p *Postgres) FindByPair(ctx context.Context, userID, courseID uuid.UUID) (models.Rating, error) {
	const query = `
        SELECT id, user_id, course_id, rating_value, created_at, updated_at
        FROM ratings
        WHERE user_id = $1 AND course_id = $2
    `
	return p.scanOne(ctx, query, userID, courseID)
}

func (p *Postgres) FindByID(ctx context.Context, ratingID uuid.UUID) (models.Rating, error) {
	const query = `
        SELECT id, user_id, course_id, rating_value, created_at, updated_at
        FROM ratings
        WHERE id = $1
    `
	return p.scanOne(ctx, query, ratingID)
}

func (p *Postgres) scanOne(ctx context.Context, query string, args ...any) (models.Rating, error) {
	var rating models.Rating
	err := p.pool.QueryRow(ctx, query, args...).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.CourseID,
		&rating.RatingValue,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, fmt.Errorf("rating: %w", sentinel.ErrNotFound)
		}
		return models.Rating{}, fmt.Errorf("find rating: %w", err)
	}
	return rating, nil
}

func (p *Postgres) Query(ctx context.Context, filter models.RatingFilter, page models.PageRequest) (models.RatingPage, error) {
	where := ""
	args := []any{}
	appendCond := func(column string, value any) {
		args = append(args, value)
		cond := column + " = $" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	if filter.UserID != nil {
		appendCond("user_id", *filter.UserID)
	}
	if filter.CourseID != nil {
		appendCond("course_id", *filter.CourseID)
	}

	var total int64
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ratings"+where, args...).Scan(&total); err != nil {
		return models.RatingPage{}, fmt.Errorf("count ratings: %w", err)
	}

	query := `
        SELECT id, user_id, course_id, rating_value, created_at, updated_at
        FROM ratings` + where +
		" ORDER BY created_at, id LIMIT $" + strconv.Itoa(len(args)+1) +
		" OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return models.RatingPage{}, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var content []models.Rating
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.CourseID,
			&rating.RatingValue,
			&rating.CreatedAt,
			&rating.UpdatedAt,
		); err != nil {
			return models.RatingPage{}, fmt.Errorf("scan rating: %w", err)
		}
		content = append(content, rating)
	}
	if err := rows.Err(); err != nil {
		return models.RatingPage{}, fmt.Errorf("iterate ratings: %w", err)
	}

	return models.NewRatingPage(content, page, total), nil
}
