package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/platform/apperr"
)

// Repo implements the Store interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new attendances repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// CheckIn records an attendance. The unique constraint on
// (user_id, course_day_id) rejects duplicates.
func (r *Repo) CheckIn(ctx context.Context, userID, courseDayID uuid.UUID) (Attendance, error) {
	query := `
		INSERT INTO attendances (user_id, course_day_id)
		VALUES ($1, $2)
		RETURNING id, user_id, course_day_id, checked_in_at`

	var att Attendance
	err := r.pool.QueryRow(ctx, query, userID, courseDayID).Scan(
		&att.ID, &att.UserID, &att.CourseDayID, &att.CheckedInAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Attendance{}, apperr.Validation("already checked in to this course day")
		}
		return Attendance{}, fmt.Errorf("record attendance: %w", err)
	}

	return att, nil
}

// ListByUser retrieves a participant's attendances, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserAttendance, error) {
	query := `
		SELECT a.id, a.user_id, a.course_day_id, a.checked_in_at,
			cd.title, cd.starts_at, cd.location
		FROM attendances a
		JOIN course_days cd ON cd.id = a.course_day_id
		WHERE a.user_id = $1
		ORDER BY a.checked_in_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list attendances by user: %w", err)
	}
	defer rows.Close()

	var items []UserAttendance
	for rows.Next() {
		var ua UserAttendance
		if err := rows.Scan(
			&ua.ID, &ua.UserID, &ua.CourseDayID, &ua.CheckedInAt,
			&ua.CourseDayTitle, &ua.CourseDayStartsAt, &ua.CourseDayLocation,
		); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		items = append(items, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendances: %w", err)
	}

	return items, nil
}

// ListByCourseDay retrieves the roster of a course day, in check-in order.
func (r *Repo) ListByCourseDay(ctx context.Context, courseDayID uuid.UUID) ([]CourseDayAttendance, error) {
	query := `
		SELECT a.id, a.user_id, a.course_day_id, a.checked_in_at,
			u.email, u.first_name, u.last_name
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.course_day_id = $1
		ORDER BY a.checked_in_at ASC`

	rows, err := r.pool.Query(ctx, query, courseDayID)
	if err != nil {
		return nil, fmt.Errorf("list attendances by course day: %w", err)
	}
	defer rows.Close()

	var items []CourseDayAttendance
	for rows.Next() {
		var ca CourseDayAttendance
		if err := rows.Scan(
			&ca.ID, &ca.UserID, &ca.CourseDayID, &ca.CheckedInAt,
			&ca.UserEmail, &ca.UserFirstName, &ca.UserLastName,
		); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		items = append(items, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendances: %w", err)
	}

	return items, nil
}

// Count returns the total number of recorded attendances.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendances`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendances: %w", err)
	}
	return count, nil
}
