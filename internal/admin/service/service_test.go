package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"attendance_backend/internal/admin/guard"
	"attendance_backend/internal/admin/repository"
	"attendance_backend/internal/admin/transport"
	"attendance_backend/internal/events"
	"attendance_backend/internal/users"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
)

type fakeStore struct {
	accounts map[uuid.UUID]repository.Account
}

func newFakeStore(accounts ...repository.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[uuid.UUID]repository.Account)}
	for _, acc := range accounts {
		s.accounts[acc.ID] = acc
	}
	return s
}

func (s *fakeStore) adminCount() int64 {
	var n int64
	for _, acc := range s.accounts {
		if acc.Role == users.RoleAdmin {
			n++
		}
	}
	return n
}

func (s *fakeStore) List(_ context.Context, params repository.ListParams) ([]repository.Account, error) {
	var out []repository.Account
	for _, acc := range s.accounts {
		if params.Role != nil && acc.Role != *params.Role {
			continue
		}
		if params.IsActive != nil && acc.IsActive != *params.IsActive {
			continue
		}
		if params.Search != "" && !matchesSearch(acc, params.Search) {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func matchesSearch(acc repository.Account, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{acc.Email, acc.Username, acc.FirstName, acc.LastName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return repository.Account{}, apperr.NotFound("user not found")
	}
	return acc, nil
}

func (s *fakeStore) Create(_ context.Context, params repository.CreateParams) (repository.Account, error) {
	acc := repository.Account{
		ID:        uuid.New(),
		Email:     params.Email,
		Username:  params.Username,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Role:      params.Role,
		Phone:     params.Phone,
		BirthDate: params.BirthDate,
		IsActive:  true,
	}
	s.accounts[acc.ID] = acc
	return acc, nil
}

func (s *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return repository.Account{}, apperr.NotFound("user not found")
	}
	if params.FirstName != nil {
		acc.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		acc.LastName = *params.LastName
	}
	if params.Phone != nil {
		acc.Phone = *params.Phone
	}
	if params.IsActive != nil {
		acc.IsActive = *params.IsActive
	}
	s.accounts[id] = acc
	return acc, nil
}

func (s *fakeStore) UpdateRoleGuarded(_ context.Context, id uuid.UUID, newRole users.Role, decide repository.DecideFunc) (repository.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return repository.Account{}, apperr.NotFound("user not found")
	}
	if err := decide(acc, s.adminCount()); err != nil {
		return repository.Account{}, err
	}
	acc.Role = newRole
	s.accounts[id] = acc
	return acc, nil
}

func (s *fakeStore) DeleteGuarded(_ context.Context, id uuid.UUID, decide repository.DecideFunc) (repository.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return repository.Account{}, apperr.NotFound("user not found")
	}
	if err := decide(acc, s.adminCount()); err != nil {
		return repository.Account{}, err
	}
	delete(s.accounts, id)
	return acc, nil
}

func (s *fakeStore) CountUsers(_ context.Context) (int64, error) {
	return int64(len(s.accounts)), nil
}

func (s *fakeStore) CountByRole(_ context.Context, role users.Role) (int64, error) {
	var n int64
	for _, acc := range s.accounts {
		if acc.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) RecentUsers(_ context.Context, limit int) ([]repository.Account, error) {
	var out []repository.Account
	for _, acc := range s.accounts {
		if len(out) == limit {
			break
		}
		out = append(out, acc)
	}
	return out, nil
}

func (s *fakeStore) ListActiveParticipantEmails(_ context.Context) ([]string, error) {
	var out []string
	for _, acc := range s.accounts {
		if acc.Role == users.RoleParticipant && acc.IsActive {
			out = append(out, acc.Email)
		}
	}
	return out, nil
}

type fakeCounter struct {
	count int64
	err   error
}

func (c fakeCounter) CountCourseDays(_ context.Context) (int64, error)  { return c.count, c.err }
func (c fakeCounter) CountAttendances(_ context.Context) (int64, error) { return c.count, c.err }

func newTestService(store repository.Store) *Service {
	log := logger.New("test")
	return New(store, fakeCounter{}, fakeCounter{}, events.NewInMemoryBus(log), log)
}

func admin(id uuid.UUID) repository.Account {
	return repository.Account{ID: id, Email: id.String() + "@example.com", Role: users.RoleAdmin, IsActive: true}
}

func participant(id uuid.UUID) repository.Account {
	return repository.Account{ID: id, Email: id.String() + "@example.com", Role: users.RoleParticipant, IsActive: true}
}

func TestCreateDefaultsToParticipant(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	resp, err := svc.Create(context.Background(), transport.CreateUserRequest{
		Email:    "mario.rossi@example.com",
		Username: "mario.rossi",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Role != users.RoleParticipant.String() {
		t.Fatalf("expected default role PARTICIPANT, got %s", resp.Role)
	}
}

func TestCreateRejectsInvalidBirthDate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), transport.CreateUserRequest{
		Email:     "mario.rossi@example.com",
		Username:  "mario.rossi",
		Password:  "correct-horse",
		BirthDate: "31/12/1990",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.accounts) != 0 {
		t.Fatal("no account should have been persisted")
	}
}

func TestPromoteAdminDenied(t *testing.T) {
	caller := uuid.New()
	target := uuid.New()
	store := newFakeStore(admin(caller), admin(target))
	svc := newTestService(store)

	_, err := svc.Promote(context.Background(), caller, target)
	if err == nil {
		t.Fatal("expected policy denial")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindPolicy {
		t.Fatalf("expected policy error, got %v", err)
	}
	if appErr.Message != guard.ReasonAlreadyAdmin {
		t.Fatalf("unexpected reason: %s", appErr.Message)
	}
	if store.accounts[target].Role != users.RoleAdmin {
		t.Fatal("target role should be unchanged")
	}
}

func TestSoleAdminSuccession(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()
	store := newFakeStore(admin(caller), participant(other))
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Demote(ctx, caller, caller); err == nil {
		t.Fatal("sole admin self-demotion should be denied")
	}

	if _, err := svc.Promote(ctx, caller, other); err != nil {
		t.Fatalf("promote successor: %v", err)
	}

	resp, err := svc.Demote(ctx, caller, caller)
	if err != nil {
		t.Fatalf("demote after succession: %v", err)
	}
	if resp.Role != users.RoleParticipant.String() {
		t.Fatalf("expected PARTICIPANT after demotion, got %s", resp.Role)
	}
}

func TestDemoteLastAdminDenied(t *testing.T) {
	// A caller whose admin token outlived their own demotion is a
	// participant in the store. The sole remaining admin must survive.
	caller := uuid.New()
	target := uuid.New()
	store := newFakeStore(participant(caller), admin(target))
	svc := newTestService(store)

	_, err := svc.Demote(context.Background(), caller, target)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindPolicy {
		t.Fatalf("expected policy error, got %v", err)
	}
	if appErr.Message != guard.ReasonSoleAdminSelf {
		t.Fatalf("unexpected reason: %s", appErr.Message)
	}
	if store.accounts[target].Role != users.RoleAdmin {
		t.Fatal("sole admin must keep the ADMIN role")
	}
	if store.adminCount() != 1 {
		t.Fatalf("admin count = %d, want 1", store.adminCount())
	}
}

func TestDeleteSelfDenied(t *testing.T) {
	caller := uuid.New()
	store := newFakeStore(admin(caller), admin(uuid.New()))
	svc := newTestService(store)

	err := svc.Delete(context.Background(), caller, caller)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != guard.ReasonDeleteSelf {
		t.Fatalf("expected self-delete denial, got %v", err)
	}
}

func TestDeleteLastAdminDenied(t *testing.T) {
	caller := uuid.New()
	target := uuid.New()
	store := newFakeStore(participant(caller), admin(target))
	svc := newTestService(store)

	err := svc.Delete(context.Background(), caller, target)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != guard.ReasonLastAdmin {
		t.Fatalf("expected last-admin denial, got %v", err)
	}
	if _, ok := store.accounts[target]; !ok {
		t.Fatal("target should still exist")
	}
}

func TestDeleteMissingUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersByRole(t *testing.T) {
	store := newFakeStore(
		admin(uuid.New()), admin(uuid.New()), admin(uuid.New()),
		participant(uuid.New()), participant(uuid.New()),
	)
	svc := newTestService(store)
	ctx := context.Background()

	participants, err := svc.List(ctx, transport.ListUsersQuery{Role: users.RoleParticipant.String()})
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("expected exactly 2 participants, got %d", len(participants))
	}
	for _, u := range participants {
		if u.Role != users.RoleParticipant.String() {
			t.Fatalf("unexpected role in participant listing: %s", u.Role)
		}
	}

	admins, err := svc.ListAdmins(ctx)
	if err != nil {
		t.Fatalf("list admins: %v", err)
	}
	if len(admins) != 3 {
		t.Fatalf("expected 3 admins, got %d", len(admins))
	}

	shortcut, err := svc.ListParticipants(ctx)
	if err != nil {
		t.Fatalf("list participants shortcut: %v", err)
	}
	if len(shortcut) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(shortcut))
	}

	all, err := svc.List(ctx, transport.ListUsersQuery{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 users, got %d", len(all))
	}
}

func TestListSearchMatchesNameAndEmail(t *testing.T) {
	match := repository.Account{ID: uuid.New(), Email: "mario.rossi@example.com", Username: "mario.rossi", FirstName: "Mario", LastName: "Rossi", Role: users.RoleParticipant, IsActive: true}
	other := repository.Account{ID: uuid.New(), Email: "anna.bianchi@example.com", Username: "anna.bianchi", FirstName: "Anna", LastName: "Bianchi", Role: users.RoleParticipant, IsActive: true}
	store := newFakeStore(match, other)
	svc := newTestService(store)

	found, err := svc.List(context.Background(), transport.ListUsersQuery{Search: "rossi"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(found) != 1 || found[0].Email != match.Email {
		t.Fatalf("expected only %s, got %+v", match.Email, found)
	}
}

func TestDashboardEmpty(t *testing.T) {
	svc := newTestService(newFakeStore())

	resp, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if resp.TotalUsers != 0 || resp.TotalAdmins != 0 || resp.TotalParticipants != 0 {
		t.Fatalf("expected zero counts, got %+v", resp)
	}
	if resp.RecentUsers == nil || len(resp.RecentUsers) != 0 {
		t.Fatalf("recent users should be an empty slice, got %v", resp.RecentUsers)
	}
}

func TestDashboardCounts(t *testing.T) {
	store := newFakeStore(admin(uuid.New()), participant(uuid.New()), participant(uuid.New()))
	log := logger.New("test")
	svc := New(store, fakeCounter{count: 4}, fakeCounter{count: 9}, events.NewInMemoryBus(log), log)

	resp, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if resp.TotalUsers != 3 || resp.TotalAdmins != 1 || resp.TotalParticipants != 2 {
		t.Fatalf("unexpected user counts: %+v", resp)
	}
	if resp.TotalCourseDays != 4 || resp.TotalAttendances != 9 {
		t.Fatalf("unexpected aggregate counts: %+v", resp)
	}
}
