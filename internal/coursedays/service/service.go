package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"attendance_backend/internal/auth/token"
	"attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/coursedays/transport"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
)

const checkinCodeBytes = 9

// ReminderScheduler schedules and cancels course day reminders. The
// scheduler is optional: the API can run without a Redis connection, in
// which case no reminders are queued.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, courseDayID uuid.UUID, at time.Time) error
	CancelReminder(ctx context.Context, courseDayID uuid.UUID) error
}

// Service provides the course days business logic.
type Service struct {
	repo      repository.Store
	scheduler ReminderScheduler
	leadTime  time.Duration
	log       *logger.Logger
}

// New creates a new course days service. scheduler may be nil.
func New(repo repository.Store, scheduler ReminderScheduler, leadTime time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		scheduler: scheduler,
		leadTime:  leadTime,
		log:       log,
	}
}

// List retrieves course days. includeCode controls whether the check-in
// code is exposed; only admin views set it.
func (s *Service) List(ctx context.Context, upcomingOnly, includeCode bool) ([]transport.CourseDayResponse, error) {
	days, err := s.repo.List(ctx, upcomingOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.CourseDayResponse, 0, len(days))
	for _, cd := range days {
		responses = append(responses, toResponse(cd, includeCode))
	}
	return responses, nil
}

// Get retrieves a single course day.
func (s *Service) Get(ctx context.Context, id uuid.UUID, includeCode bool) (transport.CourseDayResponse, error) {
	cd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CourseDayResponse{}, err
	}
	return toResponse(cd, includeCode), nil
}

// GetByID returns the raw course day record for other modules.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.CourseDay, error) {
	return s.repo.GetByID(ctx, id)
}

// CheckinContent returns the text encoded into a course day's check-in QR.
func (s *Service) CheckinContent(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	cd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return baseURL + "/check-in?code=" + cd.CheckinCode, nil
}

// Create schedules a new course day with a fresh check-in code and queues
// its reminder.
func (s *Service) Create(ctx context.Context, req transport.CreateCourseDayRequest) (transport.CourseDayResponse, error) {
	startsAt, endsAt, err := parseWindow(req.StartsAt, req.EndsAt)
	if err != nil {
		return transport.CourseDayResponse{}, err
	}

	code, err := token.GenerateRandomToken(checkinCodeBytes)
	if err != nil {
		return transport.CourseDayResponse{}, err
	}

	cd, err := s.repo.Create(ctx, repository.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Location:    req.Location,
		CheckinCode: code,
	})
	if err != nil {
		return transport.CourseDayResponse{}, err
	}

	s.scheduleReminder(ctx, cd)

	return toResponse(cd, true), nil
}

// Update applies a partial update and reschedules the reminder when the
// start time moved. The merged window is validated before anything is
// written.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCourseDayRequest) (transport.CourseDayResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CourseDayResponse{}, err
	}

	params := repository.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	}
	startsAt, endsAt := current.StartsAt, current.EndsAt
	if req.StartsAt != nil {
		startsAt, err = parseTimestamp(*req.StartsAt, "startsAt")
		if err != nil {
			return transport.CourseDayResponse{}, err
		}
		params.StartsAt = &startsAt
	}
	if req.EndsAt != nil {
		endsAt, err = parseTimestamp(*req.EndsAt, "endsAt")
		if err != nil {
			return transport.CourseDayResponse{}, err
		}
		params.EndsAt = &endsAt
	}
	if !endsAt.After(startsAt) {
		return transport.CourseDayResponse{}, apperr.Validation("endsAt must be after startsAt")
	}

	cd, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.CourseDayResponse{}, err
	}

	if params.StartsAt != nil {
		s.scheduleReminder(ctx, cd)
	}

	return toResponse(cd, true), nil
}

// Delete removes a course day and cancels its pending reminder.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.scheduler != nil {
		if err := s.scheduler.CancelReminder(ctx, id); err != nil {
			s.log.Warn("cancel reminder failed", "courseDayId", id.String(), "error", err.Error())
		}
	}

	return nil
}

// CountCourseDays reports the course day total for the admin dashboard.
func (s *Service) CountCourseDays(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) scheduleReminder(ctx context.Context, cd repository.CourseDay) {
	if s.scheduler == nil {
		return
	}

	at := cd.StartsAt.Add(-s.leadTime)
	if at.Before(time.Now()) {
		return
	}

	if err := s.scheduler.ScheduleReminder(ctx, cd.ID, at); err != nil {
		// The course day itself is saved; a lost reminder is not worth
		// failing the request over.
		s.log.Warn("schedule reminder failed", "courseDayId", cd.ID.String(), "error", err.Error())
	}
}

func parseWindow(startsAtRaw, endsAtRaw string) (time.Time, time.Time, error) {
	startsAt, err := parseTimestamp(startsAtRaw, "startsAt")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endsAt, err := parseTimestamp(endsAtRaw, "endsAt")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, apperr.Validation("endsAt must be after startsAt")
	}
	return startsAt, endsAt, nil
}

func parseTimestamp(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.Validation(field + " must be an RFC 3339 timestamp")
	}
	return t, nil
}

func toResponse(cd repository.CourseDay, includeCode bool) transport.CourseDayResponse {
	resp := transport.CourseDayResponse{
		ID:          cd.ID.String(),
		Title:       cd.Title,
		Description: cd.Description,
		StartsAt:    cd.StartsAt.Format(time.RFC3339),
		EndsAt:      cd.EndsAt.Format(time.RFC3339),
		Location:    cd.Location,
		CreatedAt:   cd.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   cd.UpdatedAt.Format(time.RFC3339),
	}
	if includeCode {
		resp.CheckinCode = cd.CheckinCode
	}
	return resp
}
