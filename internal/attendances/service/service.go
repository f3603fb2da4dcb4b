package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"attendance_backend/internal/attendances/repository"
	"attendance_backend/internal/attendances/transport"
	coursedays "attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/events"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
)

// checkinGracePeriod is how long before a course day starts that its
// check-in opens.
const checkinGracePeriod = 15 * time.Minute

// CourseDayResolver resolves check-in codes to course days.
type CourseDayResolver interface {
	GetByCheckinCode(ctx context.Context, code string) (coursedays.CourseDay, error)
}

// Service provides the attendance business logic.
type Service struct {
	repo     repository.Store
	resolver CourseDayResolver
	bus      events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new attendances service.
func New(repo repository.Store, resolver CourseDayResolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

// CheckIn records the caller's attendance for the course day matching the
// submitted code. The window opens shortly before the start and closes at
// the end of the course day.
func (s *Service) CheckIn(ctx context.Context, userID uuid.UUID, req transport.CheckInRequest) (transport.AttendanceResponse, error) {
	cd, err := s.resolver.GetByCheckinCode(ctx, req.Code)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return transport.AttendanceResponse{}, apperr.Validation("invalid check-in code")
		}
		return transport.AttendanceResponse{}, err
	}

	now := s.now()
	if now.Before(cd.StartsAt.Add(-checkinGracePeriod)) {
		return transport.AttendanceResponse{}, apperr.Validation("check-in is not open yet")
	}
	if now.After(cd.EndsAt) {
		return transport.AttendanceResponse{}, apperr.Validation("check-in window has closed")
	}

	att, err := s.repo.CheckIn(ctx, userID, cd.ID)
	if err != nil {
		return transport.AttendanceResponse{}, err
	}

	s.bus.Publish(ctx, events.AttendanceRecorded{
		BaseEvent:    events.NewBaseEvent(),
		AttendanceID: att.ID,
		UserID:       att.UserID,
		CourseDayID:  att.CourseDayID,
	})

	return toResponse(att), nil
}

// ListMine retrieves the caller's own attendance history.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]transport.UserAttendanceResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.UserAttendanceResponse, 0, len(items))
	for _, ua := range items {
		responses = append(responses, transport.UserAttendanceResponse{
			AttendanceResponse: toResponse(ua.Attendance),
			CourseDayTitle:     ua.CourseDayTitle,
			CourseDayStartsAt:  ua.CourseDayStartsAt.Format(time.RFC3339),
			CourseDayLocation:  ua.CourseDayLocation,
		})
	}
	return responses, nil
}

// Roster retrieves every check-in for a course day.
func (s *Service) Roster(ctx context.Context, courseDayID uuid.UUID) ([]transport.RosterEntryResponse, error) {
	items, err := s.repo.ListByCourseDay(ctx, courseDayID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.RosterEntryResponse, 0, len(items))
	for _, ca := range items {
		responses = append(responses, transport.RosterEntryResponse{
			AttendanceResponse: toResponse(ca.Attendance),
			UserID:             ca.UserID.String(),
			Email:              ca.UserEmail,
			FirstName:          ca.UserFirstName,
			LastName:           ca.UserLastName,
		})
	}
	return responses, nil
}

// CountAttendances reports the attendance total for the admin dashboard.
func (s *Service) CountAttendances(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func toResponse(att repository.Attendance) transport.AttendanceResponse {
	return transport.AttendanceResponse{
		ID:          att.ID.String(),
		CourseDayID: att.CourseDayID.String(),
		CheckedInAt: att.CheckedInAt.Format(time.RFC3339),
	}
}
