package httpkit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"attendance_backend/platform/apperr"
)

func handleErrorResponse(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if !HandleError(c, err) {
		t.Fatal("HandleError should report the error as handled")
	}
	return rec
}

func TestHandleErrorMapsDomainKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperr.NotFound("user not found"), http.StatusNotFound, "user not found"},
		{"validation", apperr.Validation("birthDate must be YYYY-MM-DD"), http.StatusBadRequest, "birthDate must be YYYY-MM-DD"},
		{"policy", apperr.Policy("cannot delete own account"), http.StatusBadRequest, "cannot delete own account"},
		{"forbidden", apperr.Forbidden("admin access required"), http.StatusForbidden, "admin access required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := handleErrorResponse(t, tt.err)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error != tt.message {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	rec := handleErrorResponse(t, fmt.Errorf("count admins: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "internal server error" {
		t.Fatalf("error = %q, want generic message", env.Error)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatal("store details must not reach the client")
	}
}

func TestHandleErrorUnwrapsDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("get user by id: %w", apperr.NotFound("user not found"))
	rec := handleErrorResponse(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleErrorIgnoresNil(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if HandleError(c, nil) {
		t.Fatal("nil error should not be handled")
	}
}
