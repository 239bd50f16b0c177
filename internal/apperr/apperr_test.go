package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesSentinelOfSameKind(t *testing.T) {
	err := fmt.Errorf("load attempt: %w", New(KindNotFound, "AttemptLoader.Load", errors.New("attempt 7")))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("not_found must not match forbidden")
	}
}

func TestIs_DoesNotMatchNonSentinelTargets(t *testing.T) {
	a := New(KindValidationFailure, "x", errors.New("a"))
	b := New(KindValidationFailure, "x", errors.New("b"))
	if errors.Is(a, b) {
		t.Fatalf("two concrete errors should not match each other")
	}
}

func TestUnwrap_ReachesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := New(KindPersistenceFailure, "flush", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("wrap: %w", ErrAlreadyCompleted)); got != KindAlreadyCompleted {
		t.Fatalf("KindOf = %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("KindOf(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:           http.StatusNotFound,
		KindForbidden:          http.StatusForbidden,
		KindAlreadyCompleted:   http.StatusConflict,
		KindPersistenceFailure: http.StatusServiceUnavailable,
		KindValidationFailure:  http.StatusBadRequest,
		Kind("other"):          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Fatalf("HTTPStatus(%q) = %d, want %d", kind, got, want)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := Newf(KindForbidden, "AttemptLoader.Load", "attempt %d belongs to another student", 3)
	want := "AttemptLoader.Load: forbidden: attempt 3 belongs to another student"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
