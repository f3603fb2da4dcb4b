package transport

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=150"`
	LastName  string `json:"lastName" validate:"max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN PARTICIPANT"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	BirthDate string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateUserRequest is the payload for a partial profile update.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=150"`
	LastName  *string `json:"lastName" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	BirthDate *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool   `json:"isActive"`
}

// ListUsersQuery carries the list endpoint's query filters. The
// parameter names are snake_case on the wire (?role=&is_active=&search=).
type ListUsersQuery struct {
	Role     string `form:"role" validate:"omitempty,oneof=ADMIN PARTICIPANT"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search" validate:"omitempty,max=150"`
}

// UserResponse is the API shape of a managed account.
type UserResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Username         string  `json:"username"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	FullName         string  `json:"fullName"`
	Role             string  `json:"role"`
	Phone            string  `json:"phone,omitempty"`
	BirthDate        *string `json:"birthDate"`
	IsActive         bool    `json:"isActive"`
	AttendancesCount int     `json:"attendancesCount"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// DashboardResponse aggregates the counters shown on the admin dashboard.
type DashboardResponse struct {
	TotalUsers        int64          `json:"totalUsers"`
	TotalAdmins       int64          `json:"totalAdmins"`
	TotalParticipants int64          `json:"totalParticipants"`
	TotalCourseDays   int64          `json:"totalCourseDays"`
	TotalAttendances  int64          `json:"totalAttendances"`
	RecentUsers       []UserResponse `json:"recentUsers"`
}
