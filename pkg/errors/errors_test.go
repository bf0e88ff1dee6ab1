package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := errors.New("ledger connection reset")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if errors.Unwrap(wrapped) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   Saturated("gateway saturated"),
			expected: "SATURATED: gateway saturated",
		},
		{
			name:     "with underlying error",
			appErr:   DownstreamTimeout("payments", errors.New("deadline exceeded")),
			expected: "DOWNSTREAM_TIMEOUT: payments did not respond in time (caused by: deadline exceeded)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTaxonomyStatusCodes(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"saturation", Saturated("full"), CodeSaturated, http.StatusTooManyRequests},
		{"insufficient", InsufficientInventory("no seats", cause), CodeInsufficientInventory, http.StatusConflict},
		{"unavailable", DownstreamUnavailable("inventory", cause), CodeDownstreamUnavailable, http.StatusBadGateway},
		{"timeout", DownstreamTimeout("payments", cause), CodeDownstreamTimeout, http.StatusGatewayTimeout},
		{"transient persistence", PersistenceFailure(true, cause), CodeTransientPersistenceFailure, http.StatusBadGateway},
		{"persistent persistence", PersistenceFailure(false, cause), CodePersistentPersistenceFailure, http.StatusBadGateway},
		{"compensation", CompensationFailed(nil, cause), CodeCompensationFailed, http.StatusBadGateway},
		{"generic downstream", DownstreamError("unexpected", cause), CodeDownstreamError, http.StatusBadGateway},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFound("Event"), CodeNotFound, http.StatusNotFound},
		{"service unavailable", Unavailable("Inventory"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestCompensationFailed_CarriesCause(t *testing.T) {
	cause := DownstreamTimeout("payments", nil)
	err := CompensationFailed(cause, errors.New("release refused"))

	if err.Details["reconcile"] != true {
		t.Errorf("expected reconcile flag, got %v", err.Details["reconcile"])
	}
	if err.Details["cause_code"] != CodeDownstreamTimeout {
		t.Errorf("expected cause_code %s, got %v", CodeDownstreamTimeout, err.Details["cause_code"])
	}
}

func TestNonCritical_HasNoHTTPStatus(t *testing.T) {
	err := NonCritical("notification not sent", errors.New("503"))
	if err.StatusCode() != 0 {
		t.Errorf("non-critical failures must not carry a status, got %d", err.StatusCode())
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := CompensationFailed(nil, nil)
	err = err.WithDetails(map[string]any{
		"saga_id":   "abc",
		"reconcile": false,
	})

	if err.Details["saga_id"] != "abc" {
		t.Errorf("expected saga_id 'abc', got %v", err.Details["saga_id"])
	}
	if err.Details["reconcile"] != true {
		t.Errorf("WithDetails must not overwrite existing keys")
	}

	plain := InvalidInput("x").WithDetails(map[string]any{"field": "quantity"})
	if plain.Details["field"] != "quantity" {
		t.Errorf("expected field 'quantity', got %v", plain.Details["field"])
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Event", "concert-09")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "concert-09" {
		t.Errorf("expected id 'concert-09', got %v", err.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Saturated("full")
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("handler: %w", appErr)
	if result := AsAppError(wrapped); result != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsAppErrorAndHasCode(t *testing.T) {
	appErr := InsufficientInventory("no seats", nil)

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
	if !HasCode(appErr, CodeInsufficientInventory) {
		t.Errorf("HasCode() should match the error code")
	}
	if HasCode(appErr, CodeSaturated) {
		t.Errorf("HasCode() should not match a different code")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	jsonStr := string(Saturated("API gateway saturated").ToJSON())

	if !strings.Contains(jsonStr, `"code":"SATURATED"`) {
		t.Errorf("ToJSON() should contain error code, got %s", jsonStr)
	}
	if !strings.Contains(jsonStr, "API gateway saturated") {
		t.Errorf("ToJSON() should contain error message, got %s", jsonStr)
	}
}
