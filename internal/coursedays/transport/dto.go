package transport

// CreateCourseDayRequest is the payload for scheduling a course day.
type CreateCourseDayRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	StartsAt    string `json:"startsAt" validate:"required"`
	EndsAt      string `json:"endsAt" validate:"required"`
	Location    string `json:"location" validate:"max=200"`
}

// UpdateCourseDayRequest carries a partial course day update.
type UpdateCourseDayRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartsAt    *string `json:"startsAt"`
	EndsAt      *string `json:"endsAt"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
}

// ListCourseDaysQuery carries the list endpoint's query filters.
type ListCourseDaysQuery struct {
	Upcoming bool `form:"upcoming"`
}

// CourseDayResponse is the API shape of a course day. The check-in code is
// only present in admin responses.
type CourseDayResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
	Location    string `json:"location"`
	CheckinCode string `json:"checkinCode,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
