package transport

import (
	"testing"

	"attendance_backend/platform/validator"
)

func validRequest() CreateUserRequest {
	return CreateUserRequest{
		Email:    "mario.rossi@example.com",
		Username: "mario.rossi",
		Password: "correct-horse",
	}
}

func TestCreateUserRequestValidation(t *testing.T) {
	val := validator.New()

	if err := val.Struct(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateUserRequest)
	}{
		{"short password", func(r *CreateUserRequest) { r.Password = "short" }},
		{"missing email", func(r *CreateUserRequest) { r.Email = "" }},
		{"malformed email", func(r *CreateUserRequest) { r.Email = "not-an-email" }},
		{"unknown role", func(r *CreateUserRequest) { r.Role = "SUPERUSER" }},
		{"bad birth date", func(r *CreateUserRequest) { r.BirthDate = "31/12/1990" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			if err := val.Struct(req); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestListUsersQueryValidation(t *testing.T) {
	val := validator.New()

	if err := val.Struct(ListUsersQuery{Role: "PARTICIPANT"}); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if err := val.Struct(ListUsersQuery{Role: "GUEST"}); err == nil {
		t.Fatal("expected validation error for unknown role filter")
	}
}
