package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/coursedays/transport"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
)

type fakeStore struct {
	days map[uuid.UUID]repository.CourseDay
}

func newFakeStore() *fakeStore {
	return &fakeStore{days: make(map[uuid.UUID]repository.CourseDay)}
}

func (s *fakeStore) List(_ context.Context, upcomingOnly bool) ([]repository.CourseDay, error) {
	var out []repository.CourseDay
	for _, cd := range s.days {
		if upcomingOnly && cd.StartsAt.Before(time.Now()) {
			continue
		}
		out = append(out, cd)
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.CourseDay, error) {
	cd, ok := s.days[id]
	if !ok {
		return repository.CourseDay{}, apperr.NotFound("course day not found")
	}
	return cd, nil
}

func (s *fakeStore) GetByCheckinCode(_ context.Context, code string) (repository.CourseDay, error) {
	for _, cd := range s.days {
		if cd.CheckinCode == code {
			return cd, nil
		}
	}
	return repository.CourseDay{}, apperr.NotFound("course day not found")
}

func (s *fakeStore) Create(_ context.Context, params repository.CreateParams) (repository.CourseDay, error) {
	cd := repository.CourseDay{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		StartsAt:    params.StartsAt,
		EndsAt:      params.EndsAt,
		Location:    params.Location,
		CheckinCode: params.CheckinCode,
	}
	s.days[cd.ID] = cd
	return cd, nil
}

func (s *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.CourseDay, error) {
	cd, ok := s.days[id]
	if !ok {
		return repository.CourseDay{}, apperr.NotFound("course day not found")
	}
	if params.Title != nil {
		cd.Title = *params.Title
	}
	if params.StartsAt != nil {
		cd.StartsAt = *params.StartsAt
	}
	if params.EndsAt != nil {
		cd.EndsAt = *params.EndsAt
	}
	s.days[id] = cd
	return cd, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.days[id]; !ok {
		return apperr.NotFound("course day not found")
	}
	delete(s.days, id)
	return nil
}

func (s *fakeStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.days)), nil
}

type fakeScheduler struct {
	scheduled map[uuid.UUID]time.Time
	cancelled []uuid.UUID
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[uuid.UUID]time.Time)}
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, id uuid.UUID, at time.Time) error {
	f.scheduled[id] = at
	return nil
}

func (f *fakeScheduler) CancelReminder(_ context.Context, id uuid.UUID) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func newTestService(store repository.Store, sched ReminderScheduler) *Service {
	return New(store, sched, 24*time.Hour, logger.New("test"))
}

func createRequest(startsAt, endsAt time.Time) transport.CreateCourseDayRequest {
	return transport.CreateCourseDayRequest{
		Title:    "Modulo sicurezza",
		StartsAt: startsAt.Format(time.RFC3339),
		EndsAt:   endsAt.Format(time.RFC3339),
		Location: "Aula 3",
	}
}

func TestCreateGeneratesCodeAndSchedulesReminder(t *testing.T) {
	store := newFakeStore()
	sched := newFakeScheduler()
	svc := newTestService(store, sched)

	startsAt := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	resp, err := svc.Create(context.Background(), createRequest(startsAt, startsAt.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.CheckinCode == "" {
		t.Fatal("expected a generated check-in code")
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	at, ok := sched.scheduled[id]
	if !ok {
		t.Fatal("expected a scheduled reminder")
	}
	want := startsAt.Add(-24 * time.Hour)
	if !at.Equal(want) {
		t.Fatalf("reminder at %v, want %v", at, want)
	}
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeScheduler())

	startsAt := time.Now().Add(72 * time.Hour)
	_, err := svc.Create(context.Background(), createRequest(startsAt, startsAt.Add(-time.Hour)))
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSkipsReminderWithinLeadTime(t *testing.T) {
	sched := newFakeScheduler()
	svc := newTestService(newFakeStore(), sched)

	// Starts in two hours, lead time is 24h: the reminder slot is already
	// in the past.
	startsAt := time.Now().Add(2 * time.Hour)
	_, err := svc.Create(context.Background(), createRequest(startsAt, startsAt.Add(time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sched.scheduled) != 0 {
		t.Fatal("no reminder should be scheduled inside the lead window")
	}
}

func TestUpdateRejectsInvertedWindow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeScheduler())
	ctx := context.Background()

	startsAt := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	endsAt := startsAt.Add(2 * time.Hour)
	created, err := svc.Create(ctx, createRequest(startsAt, endsAt))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	// Moving only endsAt before the stored startsAt must fail against the
	// merged window, leaving the row untouched.
	badEnd := startsAt.Add(-8 * time.Hour).Format(time.RFC3339)
	_, err = svc.Update(ctx, id, transport.UpdateCourseDayRequest{EndsAt: &badEnd})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	cd, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cd.StartsAt.Equal(startsAt) || !cd.EndsAt.Equal(endsAt) {
		t.Fatalf("window changed despite rejection: starts=%v ends=%v", cd.StartsAt, cd.EndsAt)
	}

	// Same when both bounds are supplied inverted.
	badStart := startsAt.Format(time.RFC3339)
	badEnd = startsAt.Add(-time.Hour).Format(time.RFC3339)
	_, err = svc.Update(ctx, id, transport.UpdateCourseDayRequest{StartsAt: &badStart, EndsAt: &badEnd})
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateReschedulesReminder(t *testing.T) {
	store := newFakeStore()
	sched := newFakeScheduler()
	svc := newTestService(store, sched)
	ctx := context.Background()

	startsAt := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	created, err := svc.Create(ctx, createRequest(startsAt, startsAt.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	moved := startsAt.Add(48 * time.Hour)
	movedRaw := moved.Format(time.RFC3339)
	endRaw := moved.Add(2 * time.Hour).Format(time.RFC3339)
	if _, err := svc.Update(ctx, id, transport.UpdateCourseDayRequest{StartsAt: &movedRaw, EndsAt: &endRaw}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if at := sched.scheduled[id]; !at.Equal(moved.Add(-24 * time.Hour)) {
		t.Fatalf("reminder not rescheduled, at %v", at)
	}
}

func TestDeleteCancelsReminder(t *testing.T) {
	store := newFakeStore()
	sched := newFakeScheduler()
	svc := newTestService(store, sched)
	ctx := context.Background()

	startsAt := time.Now().Add(72 * time.Hour)
	created, err := svc.Create(ctx, createRequest(startsAt, startsAt.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != id {
		t.Fatalf("expected cancelled reminder for %s, got %v", id, sched.cancelled)
	}
}

func TestCheckinCodeHiddenFromParticipants(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	startsAt := time.Now().Add(72 * time.Hour)
	created, err := svc.Create(ctx, createRequest(startsAt, startsAt.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.Get(ctx, uuid.MustParse(created.ID), false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.CheckinCode != "" {
		t.Fatal("check-in code must not be exposed to participants")
	}
}
