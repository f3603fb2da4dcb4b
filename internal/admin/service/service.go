package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"attendance_backend/internal/admin/guard"
	"attendance_backend/internal/admin/repository"
	"attendance_backend/internal/admin/transport"
	"attendance_backend/internal/auth/password"
	"attendance_backend/internal/events"
	"attendance_backend/internal/users"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
	"attendance_backend/platform/phone"
)

const recentUsersLimit = 5

// CourseDayCounter reports the number of course days for the dashboard.
type CourseDayCounter interface {
	CountCourseDays(ctx context.Context) (int64, error)
}

// AttendanceCounter reports the number of recorded attendances for the
// dashboard.
type AttendanceCounter interface {
	CountAttendances(ctx context.Context) (int64, error)
}

// Service provides the admin user-management business logic.
type Service struct {
	repo        repository.Store
	courseDays  CourseDayCounter
	attendances AttendanceCounter
	bus         events.Bus
	log         *logger.Logger
}

// New creates a new admin service.
func New(repo repository.Store, courseDays CourseDayCounter, attendances AttendanceCounter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		courseDays:  courseDays,
		attendances: attendances,
		bus:         bus,
		log:         log,
	}
}

// List retrieves users matching the query filters.
func (s *Service) List(ctx context.Context, query transport.ListUsersQuery) ([]transport.UserResponse, error) {
	params := repository.ListParams{
		IsActive: query.IsActive,
		Search:   query.Search,
	}
	if query.Role != "" {
		role := users.Role(query.Role)
		params.Role = &role
	}

	accounts, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return toResponses(accounts), nil
}

// ListAdmins retrieves every administrator account.
func (s *Service) ListAdmins(ctx context.Context) ([]transport.UserResponse, error) {
	role := users.RoleAdmin
	accounts, err := s.repo.List(ctx, repository.ListParams{Role: &role})
	if err != nil {
		return nil, err
	}
	return toResponses(accounts), nil
}

// ListParticipants retrieves every participant account.
func (s *Service) ListParticipants(ctx context.Context) ([]transport.UserResponse, error) {
	role := users.RoleParticipant
	accounts, err := s.repo.List(ctx, repository.ListParams{Role: &role})
	if err != nil {
		return nil, err
	}
	return toResponses(accounts), nil
}

// Get retrieves a single user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toResponse(acc), nil
}

// Create registers a new account. The role defaults to PARTICIPANT when
// the request leaves it empty.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	role := users.RoleParticipant
	if req.Role != "" {
		role = users.Role(req.Role)
	}
	if !role.Valid() {
		return transport.UserResponse{}, apperr.Validation("invalid role")
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return transport.UserResponse{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	acc, err := s.repo.Create(ctx, repository.CreateParams{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
		Phone:        phone.NormalizeE164(req.Phone),
		BirthDate:    birthDate,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.bus.Publish(ctx, events.UserCreated{
		BaseEvent: events.NewBaseEvent(),
		UserID:    acc.ID,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		Role:      acc.Role.String(),
	})

	return toResponse(acc), nil
}

// Update applies a partial profile update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	params := repository.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return transport.UserResponse{}, err
		}
		params.BirthDate = birthDate
	}

	acc, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toResponse(acc), nil
}

// Promote grants a participant the administrator role.
func (s *Service) Promote(ctx context.Context, callerID, id uuid.UUID) (transport.UserResponse, error) {
	return s.changeRole(ctx, guard.ActionPromote, callerID, id, users.RoleAdmin)
}

// Demote reverts an administrator to participant.
func (s *Service) Demote(ctx context.Context, callerID, id uuid.UUID) (transport.UserResponse, error) {
	return s.changeRole(ctx, guard.ActionDemote, callerID, id, users.RoleParticipant)
}

func (s *Service) changeRole(ctx context.Context, action guard.Action, callerID, id uuid.UUID, newRole users.Role) (transport.UserResponse, error) {
	var oldRole users.Role

	acc, err := s.repo.UpdateRoleGuarded(ctx, id, newRole, func(target repository.Account, adminCount int64) error {
		oldRole = target.Role
		decision := guard.Decide(action, callerID, guard.Target{ID: target.ID, Role: target.Role}, adminCount)
		if !decision.Allowed {
			s.log.GuardDenied(action.String(), callerID.String(), target.ID.String(), decision.Reason)
			return apperr.Policy(decision.Reason)
		}
		return nil
	})
	if err != nil {
		return transport.UserResponse{}, err
	}

	s.bus.Publish(ctx, events.UserRoleChanged{
		BaseEvent: events.NewBaseEvent(),
		UserID:    acc.ID,
		ChangedBy: callerID,
		OldRole:   oldRole.String(),
		NewRole:   acc.Role.String(),
	})

	return toResponse(acc), nil
}

// Delete permanently removes an account.
func (s *Service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	acc, err := s.repo.DeleteGuarded(ctx, id, func(target repository.Account, adminCount int64) error {
		decision := guard.Decide(guard.ActionDelete, callerID, guard.Target{ID: target.ID, Role: target.Role}, adminCount)
		if !decision.Allowed {
			s.log.GuardDenied(guard.ActionDelete.String(), callerID.String(), target.ID.String(), decision.Reason)
			return apperr.Policy(decision.Reason)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.UserDeleted{
		BaseEvent: events.NewBaseEvent(),
		UserID:    acc.ID,
		DeletedBy: callerID,
		Email:     acc.Email,
	})

	return nil
}

// Dashboard aggregates the admin dashboard counters. The counts are
// independent queries, so they run concurrently.
func (s *Service) Dashboard(ctx context.Context) (transport.DashboardResponse, error) {
	var resp transport.DashboardResponse

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resp.TotalUsers, err = s.repo.CountUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalAdmins, err = s.repo.CountByRole(ctx, users.RoleAdmin)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalParticipants, err = s.repo.CountByRole(ctx, users.RoleParticipant)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalCourseDays, err = s.courseDays.CountCourseDays(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.TotalAttendances, err = s.attendances.CountAttendances(ctx)
		return err
	})
	g.Go(func() error {
		recent, err := s.repo.RecentUsers(ctx, recentUsersLimit)
		if err != nil {
			return err
		}
		resp.RecentUsers = toResponses(recent)
		return nil
	})

	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}
	if resp.RecentUsers == nil {
		resp.RecentUsers = []transport.UserResponse{}
	}

	return resp, nil
}

func parseBirthDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperr.Validation("birthDate must be YYYY-MM-DD")
	}
	return &t, nil
}

func toResponse(acc repository.Account) transport.UserResponse {
	var birthDate *string
	if acc.BirthDate != nil {
		formatted := acc.BirthDate.Format("2006-01-02")
		birthDate = &formatted
	}

	return transport.UserResponse{
		ID:               acc.ID.String(),
		Email:            acc.Email,
		Username:         acc.Username,
		FirstName:        acc.FirstName,
		LastName:         acc.LastName,
		FullName:         acc.FullName(),
		Role:             acc.Role.String(),
		Phone:            acc.Phone,
		BirthDate:        birthDate,
		IsActive:         acc.IsActive,
		AttendancesCount: acc.AttendancesCount,
		CreatedAt:        acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        acc.UpdatedAt.Format(time.RFC3339),
	}
}

func toResponses(accounts []repository.Account) []transport.UserResponse {
	responses := make([]transport.UserResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, toResponse(acc))
	}
	return responses
}
