package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/platform/apperr"
)

const courseDayNotFoundMessage = "course day not found"

const courseDayColumns = `id, title, description, starts_at, ends_at, location, checkin_code, created_at, updated_at`

// Repo implements the Store interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new course days repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// List retrieves course days in chronological order, optionally only
// future ones.
func (r *Repo) List(ctx context.Context, upcomingOnly bool) ([]CourseDay, error) {
	query := `
		SELECT ` + courseDayColumns + `
		FROM course_days
		WHERE (NOT $1::boolean OR starts_at >= now())
		ORDER BY starts_at ASC`

	rows, err := r.pool.Query(ctx, query, upcomingOnly)
	if err != nil {
		return nil, fmt.Errorf("list course days: %w", err)
	}
	defer rows.Close()

	return scanCourseDays(rows)
}

// GetByID retrieves a course day by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (CourseDay, error) {
	query := `SELECT ` + courseDayColumns + ` FROM course_days WHERE id = $1`

	cd, err := scanCourseDay(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseDay{}, apperr.NotFound(courseDayNotFoundMessage)
		}
		return CourseDay{}, fmt.Errorf("get course day by id: %w", err)
	}

	return cd, nil
}

// GetByCheckinCode retrieves a course day by its check-in code.
func (r *Repo) GetByCheckinCode(ctx context.Context, code string) (CourseDay, error) {
	query := `SELECT ` + courseDayColumns + ` FROM course_days WHERE checkin_code = $1`

	cd, err := scanCourseDay(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseDay{}, apperr.NotFound(courseDayNotFoundMessage)
		}
		return CourseDay{}, fmt.Errorf("get course day by code: %w", err)
	}

	return cd, nil
}

// Create inserts a new course day.
func (r *Repo) Create(ctx context.Context, params CreateParams) (CourseDay, error) {
	query := `
		INSERT INTO course_days (title, description, starts_at, ends_at, location, checkin_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + courseDayColumns

	cd, err := scanCourseDay(r.pool.QueryRow(ctx, query,
		params.Title, params.Description, params.StartsAt, params.EndsAt, params.Location, params.CheckinCode,
	))
	if err != nil {
		return CourseDay{}, fmt.Errorf("create course day: %w", err)
	}

	return cd, nil
}

// Update applies a partial course day update.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (CourseDay, error) {
	query := `
		UPDATE course_days SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			starts_at = COALESCE($4, starts_at),
			ends_at = COALESCE($5, ends_at),
			location = COALESCE($6, location),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + courseDayColumns

	cd, err := scanCourseDay(r.pool.QueryRow(ctx, query, id,
		params.Title, params.Description, params.StartsAt, params.EndsAt, params.Location,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseDay{}, apperr.NotFound(courseDayNotFoundMessage)
		}
		return CourseDay{}, fmt.Errorf("update course day: %w", err)
	}

	return cd, nil
}

// Delete removes a course day and, through the foreign key cascade, its
// attendances.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM course_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(courseDayNotFoundMessage)
	}
	return nil
}

// Count returns the total number of course days.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_days`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count course days: %w", err)
	}
	return count, nil
}

func scanCourseDay(row pgx.Row) (CourseDay, error) {
	var cd CourseDay
	err := row.Scan(
		&cd.ID, &cd.Title, &cd.Description, &cd.StartsAt, &cd.EndsAt,
		&cd.Location, &cd.CheckinCode, &cd.CreatedAt, &cd.UpdatedAt,
	)
	return cd, err
}

func scanCourseDays(rows pgx.Rows) ([]CourseDay, error) {
	var days []CourseDay
	for rows.Next() {
		cd, err := scanCourseDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course day: %w", err)
		}
		days = append(days, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course days: %w", err)
	}

	return days, nil
}
