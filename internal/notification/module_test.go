package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	coursedays "attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/events"
	"attendance_backend/platform/apperr"
	"attendance_backend/platform/logger"
)

type fakeSender struct {
	welcomes  []string
	reminders []string
	fail      bool
}

func (s *fakeSender) SendWelcomeEmail(_ context.Context, toEmail, _ string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.welcomes = append(s.welcomes, toEmail)
	return nil
}

func (s *fakeSender) SendCourseDayReminderEmail(_ context.Context, toEmail, _, _, _ string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.reminders = append(s.reminders, toEmail)
	return nil
}

type fakeCourseDayReader struct {
	day coursedays.CourseDay
	err error
}

func (r fakeCourseDayReader) GetByID(_ context.Context, _ uuid.UUID) (coursedays.CourseDay, error) {
	return r.day, r.err
}

type fakeDirectory struct {
	emails []string
}

func (d fakeDirectory) ListActiveParticipantEmails(_ context.Context) ([]string, error) {
	return d.emails, nil
}

func TestHandleUserCreatedSendsWelcome(t *testing.T) {
	sender := &fakeSender{}
	m := NewModule(sender, fakeCourseDayReader{}, fakeDirectory{}, logger.New("test"))

	err := m.Handle(context.Background(), events.UserCreated{
		BaseEvent: events.NewBaseEvent(),
		UserID:    uuid.New(),
		Email:     "mario.rossi@example.com",
		FirstName: "Mario",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.welcomes) != 1 || sender.welcomes[0] != "mario.rossi@example.com" {
		t.Fatalf("unexpected welcome emails: %v", sender.welcomes)
	}
}

func TestHandleReminderFansOutToParticipants(t *testing.T) {
	sender := &fakeSender{}
	day := coursedays.CourseDay{
		ID:       uuid.New(),
		Title:    "Modulo primo soccorso",
		StartsAt: time.Now().Add(24 * time.Hour),
	}
	directory := fakeDirectory{emails: []string{"a@example.com", "b@example.com"}}
	m := NewModule(sender, fakeCourseDayReader{day: day}, directory, logger.New("test"))

	err := m.Handle(context.Background(), events.CourseDayReminderDue{
		BaseEvent:   events.NewBaseEvent(),
		CourseDayID: day.ID,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.reminders) != 2 {
		t.Fatalf("expected 2 reminder emails, got %d", len(sender.reminders))
	}
}

func TestHandleReminderForDeletedCourseDay(t *testing.T) {
	sender := &fakeSender{}
	reader := fakeCourseDayReader{err: apperr.NotFound("course day not found")}
	m := NewModule(sender, reader, fakeDirectory{emails: []string{"a@example.com"}}, logger.New("test"))

	err := m.Handle(context.Background(), events.CourseDayReminderDue{
		BaseEvent:   events.NewBaseEvent(),
		CourseDayID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("deleted course day should not fail the task: %v", err)
	}
	if len(sender.reminders) != 0 {
		t.Fatal("no reminders should be sent for a deleted course day")
	}
}

func TestHandleIgnoresUnrelatedEvents(t *testing.T) {
	sender := &fakeSender{}
	m := NewModule(sender, fakeCourseDayReader{}, fakeDirectory{}, logger.New("test"))

	err := m.Handle(context.Background(), events.AttendanceRecorded{
		BaseEvent:    events.NewBaseEvent(),
		AttendanceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.welcomes)+len(sender.reminders) != 0 {
		t.Fatal("no emails expected")
	}
}
