// Package users defines the account role model shared across modules.
package users

// Role is the closed set of account roles.
type Role string

const (
	// RoleAdmin marks an administrator account.
	RoleAdmin Role = "ADMIN"
	// RoleParticipant marks a course participant account.
	RoleParticipant Role = "PARTICIPANT"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParticipant:
		return true
	}
	return false
}

// String returns the role name as stored in the database and JWT claims.
func (r Role) String() string {
	return string(r)
}
