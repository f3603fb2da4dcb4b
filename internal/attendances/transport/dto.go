package transport

// CheckInRequest is the payload for a participant check-in.
type CheckInRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// AttendanceResponse is the API shape of a recorded check-in.
type AttendanceResponse struct {
	ID          string `json:"id"`
	CourseDayID string `json:"courseDayId"`
	CheckedInAt string `json:"checkedInAt"`
}

// UserAttendanceResponse is an attendance in the participant's own
// history, with its course day summary.
type UserAttendanceResponse struct {
	AttendanceResponse
	CourseDayTitle    string `json:"courseDayTitle"`
	CourseDayStartsAt string `json:"courseDayStartsAt"`
	CourseDayLocation string `json:"courseDayLocation"`
}

// RosterEntryResponse is an attendance in the admin roster of a course day.
type RosterEntryResponse struct {
	AttendanceResponse
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
