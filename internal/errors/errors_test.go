package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	wrapped := WrapError(ErrNotFound, errors.New("record not found in table clients"))

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped error should not match a different sentinel")
	}

	// Matching survives another layer of fmt wrapping.
	twice := fmt.Errorf("listing clients: %w", wrapped)
	if !errors.Is(twice, ErrNotFound) {
		t.Error("double-wrapped error should still match its sentinel")
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrDuplicateIdentity, http.StatusConflict},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
		{WrapError(ErrForbidden, errors.New("not the owner")), http.StatusForbidden},
	}

	for _, tt := range tests {
		if got := ToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetErrorMessageHidesWrappedCause(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3:5432")
	wrapped := WrapError(ErrInternal, cause)

	msg := GetErrorMessage(wrapped)
	if msg != ErrInternal.Message {
		t.Errorf("message = %q, want %q", msg, ErrInternal.Message)
	}
	if strings.Contains(msg, "10.0.0.3") {
		t.Error("client-facing message leaks the underlying cause")
	}

	// Error() keeps the cause for logs.
	if !strings.Contains(wrapped.Error(), "connection refused") {
		t.Error("Error() should include the cause for logging")
	}
}

func TestGetDomainError(t *testing.T) {
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("plain error should not yield a domain error")
	}

	wrapped := fmt.Errorf("outer: %w", ErrDuplicateIdentity)
	got := GetDomainError(wrapped)
	if got == nil || got.Code != ErrDuplicateIdentity.Code {
		t.Errorf("GetDomainError = %v, want code %s", got, ErrDuplicateIdentity.Code)
	}
}
