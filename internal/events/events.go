// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"attendance_backend/platform/events"
	"attendance_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Admin Domain Events
// =============================================================================

// UserCreated is published when an administrator creates a new account.
type UserCreated struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	Role      string    `json:"role"`
}

func (e UserCreated) EventName() string { return "admin.user.created" }

// UserRoleChanged is published when an account is promoted or demoted.
type UserRoleChanged struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	ChangedBy uuid.UUID `json:"changedBy"`
	OldRole   string    `json:"oldRole"`
	NewRole   string    `json:"newRole"`
}

func (e UserRoleChanged) EventName() string { return "admin.user.role_changed" }

// UserDeleted is published when an account is permanently removed.
type UserDeleted struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	DeletedBy uuid.UUID `json:"deletedBy"`
	Email     string    `json:"email"`
}

func (e UserDeleted) EventName() string { return "admin.user.deleted" }

// =============================================================================
// Course Day Domain Events
// =============================================================================

// CourseDayReminderDue is published by the worker when a scheduled
// course-day reminder fires.
type CourseDayReminderDue struct {
	BaseEvent
	CourseDayID uuid.UUID `json:"courseDayId"`
}

func (e CourseDayReminderDue) EventName() string { return "coursedays.reminder_due" }

// AttendanceRecorded is published when a participant checks in.
type AttendanceRecorded struct {
	BaseEvent
	AttendanceID uuid.UUID `json:"attendanceId"`
	UserID       uuid.UUID `json:"userId"`
	CourseDayID  uuid.UUID `json:"courseDayId"`
}

func (e AttendanceRecorded) EventName() string { return "attendances.recorded" }
