package guard

import (
	"testing"

	"attendance_backend/internal/users"

	"github.com/google/uuid"
)

func TestDecide(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()

	tests := []struct {
		name       string
		action     Action
		target     Target
		adminCount int64
		allowed    bool
		reason     string
	}{
		{
			name:    "promote participant",
			action:  ActionPromote,
			target:  Target{ID: other, Role: users.RoleParticipant},
			allowed: true,
		},
		{
			name:   "promote admin denied",
			action: ActionPromote,
			target: Target{ID: other, Role: users.RoleAdmin},
			reason: ReasonAlreadyAdmin,
		},
		{
			name:       "demote other admin",
			action:     ActionDemote,
			target:     Target{ID: other, Role: users.RoleAdmin},
			adminCount: 2,
			allowed:    true,
		},
		{
			name:       "demote participant denied",
			action:     ActionDemote,
			target:     Target{ID: other, Role: users.RoleParticipant},
			adminCount: 2,
			reason:     ReasonNotAdmin,
		},
		{
			name:       "demote self as sole admin denied",
			action:     ActionDemote,
			target:     Target{ID: caller, Role: users.RoleAdmin},
			adminCount: 1,
			reason:     ReasonSoleAdminSelf,
		},
		{
			name:       "demote self with successor",
			action:     ActionDemote,
			target:     Target{ID: caller, Role: users.RoleAdmin},
			adminCount: 2,
			allowed:    true,
		},
		{
			name:       "demote other sole admin denied",
			action:     ActionDemote,
			target:     Target{ID: other, Role: users.RoleAdmin},
			adminCount: 1,
			reason:     ReasonSoleAdminSelf,
		},
		{
			name:       "delete self denied",
			action:     ActionDelete,
			target:     Target{ID: caller, Role: users.RoleParticipant},
			adminCount: 1,
			reason:     ReasonDeleteSelf,
		},
		{
			name:       "delete last admin denied",
			action:     ActionDelete,
			target:     Target{ID: other, Role: users.RoleAdmin},
			adminCount: 1,
			reason:     ReasonLastAdmin,
		},
		{
			name:       "delete admin with successor",
			action:     ActionDelete,
			target:     Target{ID: other, Role: users.RoleAdmin},
			adminCount: 2,
			allowed:    true,
		},
		{
			name:       "delete participant",
			action:     ActionDelete,
			target:     Target{ID: other, Role: users.RoleParticipant},
			adminCount: 1,
			allowed:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.action, caller, tt.target, tt.adminCount)
			if got.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v (reason %q)", got.Allowed, tt.allowed, got.Reason)
			}
			if !tt.allowed && got.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", got.Reason, tt.reason)
			}
			if tt.allowed && got.Reason != "" {
				t.Fatalf("allowed decision should carry no reason, got %q", got.Reason)
			}
		})
	}
}

func TestDecideSoleAdminScenario(t *testing.T) {
	// Store: one admin (the caller) and one participant. The caller cannot
	// demote themselves until the participant has been promoted.
	admin := uuid.New()
	participant := uuid.New()

	if d := Decide(ActionDemote, admin, Target{ID: admin, Role: users.RoleAdmin}, 1); d.Allowed {
		t.Fatal("sole admin self-demotion must be denied")
	}

	if d := Decide(ActionPromote, admin, Target{ID: participant, Role: users.RoleParticipant}, 1); !d.Allowed {
		t.Fatalf("promoting the participant should be allowed, got %q", d.Reason)
	}

	// After the promotion there are two admins.
	if d := Decide(ActionDemote, admin, Target{ID: admin, Role: users.RoleAdmin}, 2); !d.Allowed {
		t.Fatalf("self-demotion with a successor should be allowed, got %q", d.Reason)
	}
}

func TestDecideStaleAdminCallerCannotEmptyAdmins(t *testing.T) {
	// The caller's role claim can outlive their demotion for the access
	// token lifetime. Even then the sole remaining admin must not be
	// demotable or deletable.
	staleCaller := uuid.New()
	soleAdmin := uuid.New()

	if d := Decide(ActionDemote, staleCaller, Target{ID: soleAdmin, Role: users.RoleAdmin}, 1); d.Allowed {
		t.Fatal("demoting the sole admin must be denied regardless of caller")
	}
	if d := Decide(ActionDelete, staleCaller, Target{ID: soleAdmin, Role: users.RoleAdmin}, 1); d.Allowed {
		t.Fatal("deleting the sole admin must be denied regardless of caller")
	}
}
