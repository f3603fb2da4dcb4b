package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseDay is a scheduled lesson day participants check in to.
type CourseDay struct {
	ID          uuid.UUID
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	CheckinCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams carries the fields for a new course day.
type CreateParams struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	CheckinCode string
}

// UpdateParams carries partial course day updates. Nil fields are left
// unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Location    *string
}

// Store is the persistence surface of the course days module.
type Store interface {
	List(ctx context.Context, upcomingOnly bool) ([]CourseDay, error)
	GetByID(ctx context.Context, id uuid.UUID) (CourseDay, error)
	GetByCheckinCode(ctx context.Context, code string) (CourseDay, error)
	Create(ctx context.Context, params CreateParams) (CourseDay, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (CourseDay, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
