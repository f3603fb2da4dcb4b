// Package notification provides event handlers for sending emails in
// response to domain events. Domain modules publish events and never talk
// to the email provider directly.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	coursedays "attendance_backend/internal/coursedays/repository"
	"attendance_backend/internal/email"
	"attendance_backend/internal/events"
	"attendance_backend/platform/logger"
)

// CourseDayReader loads the course day a reminder refers to.
type CourseDayReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (coursedays.CourseDay, error)
}

// ParticipantDirectory lists the recipients of course day reminders.
type ParticipantDirectory interface {
	ListActiveParticipantEmails(ctx context.Context) ([]string, error)
}

// Module subscribes to domain events and sends the matching emails.
type Module struct {
	sender       email.Sender
	courseDays   CourseDayReader
	participants ParticipantDirectory
	log          *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, courseDays CourseDayReader, participants ParticipantDirectory, log *logger.Logger) *Module {
	return &Module{
		sender:       sender,
		courseDays:   courseDays,
		participants: participants,
		log:          log,
	}
}

// RegisterHandlers subscribes to the relevant domain events on the bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.UserCreated{}.EventName(), m)
	bus.Subscribe(events.CourseDayReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserCreated:
		return m.handleUserCreated(ctx, e)
	case events.CourseDayReminderDue:
		return m.handleCourseDayReminderDue(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleUserCreated(ctx context.Context, e events.UserCreated) error {
	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.FirstName); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

func (m *Module) handleCourseDayReminderDue(ctx context.Context, e events.CourseDayReminderDue) error {
	cd, err := m.courseDays.GetByID(ctx, e.CourseDayID)
	if err != nil {
		// The course day may have been deleted after the reminder fired.
		m.log.Warn("reminder for unknown course day", "courseDayId", e.CourseDayID.String(), "error", err.Error())
		return nil
	}

	emails, err := m.participants.ListActiveParticipantEmails(ctx)
	if err != nil {
		return fmt.Errorf("list reminder recipients: %w", err)
	}

	startsAt := cd.StartsAt.Format(time.RFC3339)
	var failed int
	for _, addr := range emails {
		if err := m.sender.SendCourseDayReminderEmail(ctx, addr, cd.Title, startsAt, cd.Location); err != nil {
			failed++
			m.log.Error("send reminder email", "to", addr, "courseDayId", cd.ID.String(), "error", err.Error())
		}
	}

	m.log.Info("course day reminders sent",
		"courseDayId", cd.ID.String(),
		"recipients", len(emails)-failed,
		"failed", failed,
	)
	return nil
}

// Compile-time check that Module implements events.Handler
var _ events.Handler = (*Module)(nil)
