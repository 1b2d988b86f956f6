package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"NotFound", NotFound("judge not found"), ErrNotFound, "judge not found"},
		{"NotFoundf", NotFoundf("entrant %s not found", "e1"), ErrNotFound, "entrant e1 not found"},
		{"Validation", Validation("bad duration"), ErrValidation, "bad duration"},
		{"Validationf", Validationf("duration %d not a multiple of %d", 12, 5), ErrValidation, "duration 12 not a multiple of 5"},
		{"Conflict", Conflict("slot taken"), ErrConflict, "slot taken"},
		{"Conflictf", Conflictf("judge %s busy", "j1"), ErrConflict, "judge j1 busy"},
		{"InvalidInput", InvalidInput("empty name"), ErrInvalidInput, "empty name"},
		{"InvalidInputf", InvalidInputf("bad format %q", "x"), ErrInvalidInput, `bad format "x"`},
		{"Internalf", Internalf("unexpected %s", "state"), ErrInternal, "unexpected state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no wrapped error, got %v", tt.err.Err)
			}
			if tt.err.Error() != tt.message {
				t.Errorf("expected Error() %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if err.Error() != "internal error: disk full" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrap(cause, ErrNotFound, "unit missing")

	if err.Error() != "unit missing: no rows" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if errors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("populate: %w", Validation("bad settings"))

	if got := KindOf(wrapped); got != ErrValidation {
		t.Errorf("expected ErrValidation, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("expected ErrInternal for plain errors, got %v", got)
	}
	if got := KindOf(nil); got != ErrInternal {
		t.Errorf("expected ErrInternal for nil, got %v", got)
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("move: %w", Conflict("slot taken"))

	if !Is(err, ErrConflict) {
		t.Error("expected Is(ErrConflict) to be true")
	}
	if Is(err, ErrNotFound) {
		t.Error("expected Is(ErrNotFound) to be false")
	}
	if Is(nil, ErrConflict) {
		t.Error("expected Is(nil) to be false")
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		ErrInternal:     "internal",
		ErrNotFound:     "not_found",
		ErrValidation:   "validation",
		ErrConflict:     "conflict",
		ErrInvalidInput: "invalid_input",
		Kind(99):        "internal",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
