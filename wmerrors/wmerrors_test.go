package wmerrors

import (
	"errors"
	"testing"
)

func TestErrorMessageWithoutCause(t *testing.T) {
	err := New(NotFound, "no such tag")
	want := "not-found: no such tag"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(XRequestFailed, "reparent failed", cause)
	if got := err.Error(); got == "" {
		t.Fatal("Error() should not be empty")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the wrapped cause to errors.Is")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := New(RuleReject, "rules engine refused")
	if !Is(err, RuleReject) {
		t.Error("Is should match the error's own kind")
	}
	if Is(err, NotFound) {
		t.Error("Is should not match a different kind")
	}
	if Is(errors.New("plain"), RuleReject) {
		t.Error("Is should return false for a non-*Error")
	}
}

func TestExitCodesAreDistinctAndNonzeroExceptSuccess(t *testing.T) {
	kinds := []Kind{InvalidArgument, NotFound, RuleReject, InconsistentState, XRequestFailed}
	seen := map[int]Kind{}
	for _, k := range kinds {
		code := k.ExitCode()
		if code <= 0 {
			t.Errorf("%v: ExitCode() = %d, want a positive code (spec §6)", k, code)
		}
		if other, dup := seen[code]; dup {
			t.Errorf("%v and %v share exit code %d", k, other, code)
		}
		seen[code] = k
	}
}

func TestKindString(t *testing.T) {
	if InvalidArgument.String() != "invalid-argument" {
		t.Errorf("String() = %q", InvalidArgument.String())
	}
}
