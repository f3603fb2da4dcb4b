package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"attendance_backend/internal/users"
)

// Account is a managed user row together with its attendance total.
type Account struct {
	ID               uuid.UUID
	Email            string
	Username         string
	FirstName        string
	LastName         string
	Role             users.Role
	Phone            string
	BirthDate        *time.Time
	IsActive         bool
	AttendancesCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName joins first and last name the way the dashboard displays users.
func (a Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// ListParams filters the user listing. Nil fields are not applied.
type ListParams struct {
	Role     *users.Role
	IsActive *bool
	Search   string
}

// CreateParams carries the fields for a new account.
type CreateParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         users.Role
	Phone        string
	BirthDate    *time.Time
}

// UpdateParams carries partial profile updates. Nil fields are left unchanged.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
	BirthDate *time.Time
	IsActive  *bool
}

// DecideFunc is evaluated inside the guarded transaction, after the target
// row and the admin rows have been locked. Returning an error aborts the
// mutation and rolls the transaction back.
type DecideFunc func(target Account, adminCount int64) error

// Store is the persistence surface of the admin module.
type Store interface {
	List(ctx context.Context, params ListParams) ([]Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	Create(ctx context.Context, params CreateParams) (Account, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Account, error)

	// UpdateRoleGuarded and DeleteGuarded run their mutation in a
	// transaction that locks the target row and every admin row before
	// calling decide, so the admin count cannot change underneath the
	// decision.
	UpdateRoleGuarded(ctx context.Context, id uuid.UUID, newRole users.Role, decide DecideFunc) (Account, error)
	DeleteGuarded(ctx context.Context, id uuid.UUID, decide DecideFunc) (Account, error)

	CountUsers(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role users.Role) (int64, error)
	RecentUsers(ctx context.Context, limit int) ([]Account, error)
	ListActiveParticipantEmails(ctx context.Context) ([]string, error)
}
