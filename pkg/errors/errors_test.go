package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("expected errors.Is to find the original error")
	}
}

func TestRoomUnavailable(t *testing.T) {
	err := RoomUnavailable("665f1a2b3c4d5e6f7a8b9c0d", map[string]any{
		"date": "2026-06-11",
	})

	if err.Code != CodeRoomUnavailable {
		t.Errorf("expected code %s, got %s", CodeRoomUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["room_number_id"] != "665f1a2b3c4d5e6f7a8b9c0d" {
		t.Errorf("expected room_number_id detail, got %v", err.Details)
	}
	if err.Details["date"] != "2026-06-11" {
		t.Errorf("expected conflicting date detail, got %v", err.Details)
	}
}

func TestPartialReservation(t *testing.T) {
	err := PartialReservation("abc")

	if err.Code != CodePartialReservation {
		t.Errorf("expected code %s, got %s", CodePartialReservation, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestOracleUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := OracleUnavailable(cause)

	if err.Code != CodeOracleUnavailable {
		t.Errorf("expected code %s, got %s", CodeOracleUnavailable, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped transport error to be reachable")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("already exists")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("expected AsAppError to return the same AppError")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain error to convert to %s, got %s", CodeInternal, converted.Code)
	}
}
