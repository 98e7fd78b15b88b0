package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := (&DomainError{
		Category: ErrCatValidation,
		Code:     "CODE",
		Message:  "message",
	}).WithCause(cause)

	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be unwrapped")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to match cause")
	}

	match := &DomainError{Category: ErrCatValidation, Code: "CODE"}
	if !errors.Is(err, match) {
		t.Fatalf("expected errors.Is to match category and code")
	}
	if got := err.Error(); got != "[validation] CODE: message (root)" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := ErrExecution(CodeStatementFailed, "msg")
	err.WithDetail("statement", "set")
	if err.Details == nil || err.Details["statement"] != "set" {
		t.Fatalf("expected details to be set")
	}
}

func TestErrorFactories(t *testing.T) {
	if ErrValidation("C", "m").Retryable {
		t.Fatalf("validation should not be retryable")
	}
	if ErrExecution("C", "m").Retryable {
		t.Fatalf("execution should not be retryable")
	}
	if !ErrUnavailable("m").Retryable {
		t.Fatalf("unavailable should be retryable")
	}
	if ErrConfig("m").Retryable {
		t.Fatalf("config should not be retryable")
	}
	if got := ErrNotFound("statement", "auto").Message; got != "statement not found: auto" {
		t.Fatalf("ErrNotFound message = %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	wrapped := fmt.Errorf("opening store: %w", ErrUnavailable("down"))
	if !IsRetryable(wrapped) {
		t.Fatalf("expected wrapped retryable error")
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatalf("expected non-domain error to be non-retryable")
	}
}

func TestGetCategory(t *testing.T) {
	if GetCategory(ErrConfig("m")) != ErrCatConfig {
		t.Fatalf("expected config category")
	}
	if GetCategory(errors.New("plain")) != ErrCatInternal {
		t.Fatalf("expected internal category for non-domain error")
	}
	if !IsCategory(ErrNotFound("x", "y"), ErrCatNotFound) {
		t.Fatalf("expected category match")
	}
}
