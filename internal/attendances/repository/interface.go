package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attendance is a participant's check-in to a course day.
type Attendance struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CourseDayID uuid.UUID
	CheckedInAt time.Time
}

// UserAttendance is an attendance joined with its course day, as shown in
// a participant's own history.
type UserAttendance struct {
	Attendance
	CourseDayTitle    string
	CourseDayStartsAt time.Time
	CourseDayLocation string
}

// CourseDayAttendance is an attendance joined with the participant, as
// shown in the admin roster for a course day.
type CourseDayAttendance struct {
	Attendance
	UserEmail     string
	UserFirstName string
	UserLastName  string
}

// Store is the persistence surface of the attendances module.
type Store interface {
	// CheckIn records an attendance. A repeated check-in for the same
	// course day is rejected.
	CheckIn(ctx context.Context, userID, courseDayID uuid.UUID) (Attendance, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]UserAttendance, error)
	ListByCourseDay(ctx context.Context, courseDayID uuid.UUID) ([]CourseDayAttendance, error)
	Count(ctx context.Context) (int64, error)
}
