// Package guard holds the account-lifecycle decision logic: who may
// promote, demote, or delete an account, and the invariants that keep the
// system from ever reaching zero administrators.
//
// Decide is a pure function. Callers are responsible for feeding it fresh
// state: the admin repository re-evaluates the decision inside a
// transaction that holds row locks on the admin accounts, so two
// concurrent demotions of near-last admins cannot both pass.
package guard

import (
	"attendance_backend/internal/users"

	"github.com/google/uuid"
)

// Action is a guarded account-lifecycle operation.
type Action int

const (
	ActionPromote Action = iota
	ActionDemote
	ActionDelete
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionPromote:
		return "promote"
	case ActionDemote:
		return "demote"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Denial reasons, surfaced verbatim in the API response.
const (
	ReasonAlreadyAdmin  = "user is already an administrator"
	ReasonNotAdmin      = "user is not an administrator"
	ReasonSoleAdminSelf = "sole admin must promote a successor first"
	ReasonDeleteSelf    = "cannot delete own account"
	ReasonLastAdmin     = "cannot delete the sole administrator"
	ReasonNoAdminsLeft  = "operation would leave no administrators"
)

// Target is the account a guarded action operates on.
type Target struct {
	ID   uuid.UUID
	Role users.Role
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates a guarded action for the given caller, target, and the
// current number of administrator accounts. adminCount must reflect
// persisted state at decision time, never a value captured earlier.
func Decide(action Action, callerID uuid.UUID, target Target, adminCount int64) Decision {
	switch action {
	case ActionPromote:
		if target.Role == users.RoleAdmin {
			return deny(ReasonAlreadyAdmin)
		}
		return allow()

	case ActionDemote:
		if target.Role == users.RoleParticipant {
			return deny(ReasonNotAdmin)
		}
		// An ADMIN target at adminCount == 1 is the sole admin. A caller
		// whose role claim outlived their own demotion is not in that
		// count, so the check cannot depend on target.ID == callerID.
		if adminCount == 1 {
			return deny(ReasonSoleAdminSelf)
		}
		return allow()

	case ActionDelete:
		if target.ID == callerID {
			return deny(ReasonDeleteSelf)
		}
		if target.Role == users.RoleAdmin && adminCount == 1 {
			return deny(ReasonLastAdmin)
		}
		return allow()
	}

	return deny("unknown action")
}
