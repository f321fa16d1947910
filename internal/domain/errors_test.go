package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("language", "unsupported")

	if got := err.Error(); got != "validation: language: unsupported" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "language", Message: "required"},
		{Field: "mode", Message: "must be standard, bonus, or review_all"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestValidationError_WrappedStillMatches(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("build session: %w", NewValidationError("limit", "too large"))

	if !errors.Is(wrapped, ErrValidation) {
		t.Fatal("wrapped validation error should match ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As should extract *ValidationError")
	}
	if ve.Errors[0].Field != "limit" {
		t.Fatalf("unexpected field: %q", ve.Errors[0].Field)
	}
}
