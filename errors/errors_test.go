package errors

import (
	"fmt"
	"testing"
)

func TestPulseError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeInvalidPhase, "phase not found")
	if err.Code != ErrCodeInvalidPhase {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidPhase, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeInternal, "store failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeInternal) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeInvalidPhase) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("phase", "ops").WithDetail("attempt", 2)
	if detailed.Details["phase"] != "ops" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := InvalidPhase("ops", []string{"design", "code"})
	if err.Code != ErrCodeInvalidPhase {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidPhase, err.Code)
	}
	if err.Details["phase"] != "ops" {
		t.Error("InvalidPhase should include phase detail")
	}
	if !err.IsInvalidArgument() {
		t.Error("InvalidPhase should be an invalid argument")
	}

	err = DaemonRunning(4242)
	if err.Code != ErrCodeDaemonRunning {
		t.Errorf("expected code %s, got %s", ErrCodeDaemonRunning, err.Code)
	}
	if err.Details["pid"] != 4242 {
		t.Error("DaemonRunning should include pid detail")
	}
	if err.IsInvalidArgument() {
		t.Error("DaemonRunning is not an invalid argument")
	}
}

func TestGetCodeThroughWrapping(t *testing.T) {
	inner := InvalidField("build", fmt.Errorf("bad"))
	outer := fmt.Errorf("update failed: %w", inner)

	if got := GetCode(outer); got != ErrCodeInvalidField {
		t.Errorf("GetCode() = %s, want %s", got, ErrCodeInvalidField)
	}

	pe, ok := As(outer)
	if !ok || pe != inner {
		t.Error("As should return the wrapped PulseError")
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As should not match a plain error")
	}
}
