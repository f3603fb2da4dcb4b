package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"attendance_backend/internal/admin/guard"
	"attendance_backend/internal/users"
	"attendance_backend/platform/apperr"
)

const userNotFoundMessage = "user not found"

const accountColumns = `
	u.id, u.email, u.username, u.first_name, u.last_name, u.role, u.phone,
	u.birth_date, u.is_active, u.created_at, u.updated_at,
	(SELECT COUNT(*) FROM attendances a WHERE a.user_id = u.id) AS attendances_count`

// Repo implements the Store interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new admin users repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// List retrieves users matching the filters, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Account, error) {
	var roleParam interface{}
	if params.Role != nil {
		roleParam = string(*params.Role)
	}
	var isActiveParam interface{}
	if params.IsActive != nil {
		isActiveParam = *params.IsActive
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	query := `
		SELECT ` + accountColumns + `
		FROM users u
		WHERE ($1::text IS NULL OR u.role = $1)
			AND ($2::boolean IS NULL OR u.is_active = $2)
			AND ($3::text IS NULL OR u.email ILIKE $3 OR u.username ILIKE $3
				OR u.first_name ILIKE $3 OR u.last_name ILIKE $3)
		ORDER BY u.created_at DESC`

	rows, err := r.pool.Query(ctx, query, roleParam, isActiveParam, searchParam)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetByID retrieves a single user by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users u
		WHERE u.id = $1`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(userNotFoundMessage)
		}
		return Account{}, fmt.Errorf("get user by id: %w", err)
	}

	return acc, nil
}

// Create inserts a new user.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Account, error) {
	query := `
		INSERT INTO users (email, username, first_name, last_name, password_hash, role, phone, birth_date)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, email, username, first_name, last_name, role, phone,
			birth_date, is_active, created_at, updated_at, 0`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query,
		params.Email, params.Username, params.FirstName, params.LastName,
		params.PasswordHash, params.Role, params.Phone, params.BirthDate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, apperr.Validation("a user with this email or username already exists")
		}
		return Account{}, fmt.Errorf("create user: %w", err)
	}

	return acc, nil
}

// Update applies a partial profile update.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Account, error) {
	query := `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			birth_date = COALESCE($5, birth_date),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING id, email, username, first_name, last_name, role, phone,
			birth_date, is_active, created_at, updated_at,
			(SELECT COUNT(*) FROM attendances a WHERE a.user_id = users.id)`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, id,
		params.FirstName, params.LastName, params.Phone, params.BirthDate, params.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(userNotFoundMessage)
		}
		return Account{}, fmt.Errorf("update user: %w", err)
	}

	return acc, nil
}

// UpdateRoleGuarded changes a user's role after the decide callback approves
// it. The target row and all admin rows stay locked until commit.
func (r *Repo) UpdateRoleGuarded(ctx context.Context, id uuid.UUID, newRole users.Role, decide DecideFunc) (Account, error) {
	var acc Account

	err := r.inGuardedTx(ctx, id, decide, func(tx pgx.Tx) error {
		query := `
			UPDATE users SET role = $2, updated_at = now()
			WHERE id = $1
			RETURNING id, email, username, first_name, last_name, role, phone,
				birth_date, is_active, created_at, updated_at,
				(SELECT COUNT(*) FROM attendances a WHERE a.user_id = users.id)`

		var err error
		acc, err = scanAccount(tx.QueryRow(ctx, query, id, newRole))
		if err != nil {
			return fmt.Errorf("update user role: %w", err)
		}
		return nil
	})
	if err != nil {
		return Account{}, err
	}

	return acc, nil
}

// DeleteGuarded removes a user after the decide callback approves it,
// returning the deleted account.
func (r *Repo) DeleteGuarded(ctx context.Context, id uuid.UUID, decide DecideFunc) (Account, error) {
	var acc Account

	err := r.inGuardedTx(ctx, id, decide, func(tx pgx.Tx) error {
		query := `
			DELETE FROM users
			WHERE id = $1
			RETURNING id, email, username, first_name, last_name, role, phone,
				birth_date, is_active, created_at, updated_at, 0`

		var err error
		acc, err = scanAccount(tx.QueryRow(ctx, query, id))
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return Account{}, err
	}

	return acc, nil
}

// inGuardedTx locks the target row and every admin row, evaluates decide
// against the locked state, and runs the mutation only if it approves.
func (r *Repo) inGuardedTx(ctx context.Context, id uuid.UUID, decide DecideFunc, mutate func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin guarded tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	targetQuery := `
		SELECT id, email, username, first_name, last_name, role, phone,
			birth_date, is_active, created_at, updated_at, 0
		FROM users
		WHERE id = $1
		FOR UPDATE`

	var target Account
	target, err = scanAccount(tx.QueryRow(ctx, targetQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = apperr.NotFound(userNotFoundMessage)
			return err
		}
		err = fmt.Errorf("lock target user: %w", err)
		return err
	}

	// Locking the admin rows keeps the count stable for the duration of
	// the decision; a concurrent demote or delete of another admin blocks
	// here until this transaction commits.
	countQuery := `
		SELECT COUNT(*) FROM (
			SELECT id FROM users WHERE role = $1 FOR UPDATE
		) locked`

	var adminCount int64
	if err = tx.QueryRow(ctx, countQuery, users.RoleAdmin).Scan(&adminCount); err != nil {
		err = fmt.Errorf("count admins: %w", err)
		return err
	}

	if err = decide(target, adminCount); err != nil {
		return err
	}

	if err = mutate(tx); err != nil {
		return err
	}

	// The admin count must never reach zero; a transaction that would
	// commit such a state is rolled back regardless of what decide saw.
	var remaining int64
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, users.RoleAdmin).Scan(&remaining); err != nil {
		err = fmt.Errorf("recount admins: %w", err)
		return err
	}
	if remaining == 0 {
		err = apperr.Policy(guard.ReasonNoAdminsLeft)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit guarded tx: %w", err)
	}

	return nil
}

// CountUsers returns the total number of users.
func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users holding the given role.
func (r *Repo) CountByRole(ctx context.Context, role users.Role) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

// RecentUsers returns the most recently registered users.
func (r *Repo) RecentUsers(ctx context.Context, limit int) ([]Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users u
		ORDER BY u.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent users: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListActiveParticipantEmails returns the email of every active participant,
// used to address course day reminders.
func (r *Repo) ListActiveParticipantEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT email FROM users
		WHERE role = $1 AND is_active = true
		ORDER BY email`

	rows, err := r.pool.Query(ctx, query, users.RoleParticipant)
	if err != nil {
		return nil, fmt.Errorf("list participant emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan participant email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant emails: %w", err)
	}

	return emails, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var acc Account
	err := row.Scan(
		&acc.ID, &acc.Email, &acc.Username, &acc.FirstName, &acc.LastName,
		&acc.Role, &acc.Phone, &acc.BirthDate, &acc.IsActive,
		&acc.CreatedAt, &acc.UpdatedAt, &acc.AttendancesCount,
	)
	return acc, err
}

func scanAccounts(rows pgx.Rows) ([]Account, error) {
	var accounts []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return accounts, nil
}
