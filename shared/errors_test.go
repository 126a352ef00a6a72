package shared

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestGetAppError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFound  bool
	}{
		{"bad request", NewBadRequestError(cause, "invalid"), http.StatusBadRequest, true},
		{"forbidden", NewForbiddenError(cause, "not your account"), http.StatusForbidden, true},
		{"not found", NewNotFoundError(nil, "already processed"), http.StatusNotFound, true},
		{"unavailable", NewServiceUnavailableError(cause, "store down"), http.StatusServiceUnavailable, true},
		{"wrapped", fmt.Errorf("context: %w", NewConflictError(cause, "dup")), http.StatusConflict, true},
		{"plain error", cause, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := GetAppError(tt.err)
			if ok != tt.wantFound {
				t.Fatalf("GetAppError found=%v, want %v", ok, tt.wantFound)
			}
			if ok && appErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", appErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("record not found")
	err := NewNotFoundError(cause, "activity not found")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestPartialApplyError(t *testing.T) {
	err := &PartialApplyError{
		ActivityID: "act_1",
		AccountID:  "acc_1",
		Step:       "family_goal",
		Err:        errors.New("connection reset"),
	}

	msg := err.Error()
	for _, want := range []string{"act_1", "acc_1", "family_goal"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}
