package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBadRequest(t *testing.T) {
	cause := errors.New("EOF")
	err := BadRequest("invalid request body", cause)
	if err.Status != http.StatusBadRequest || err.Code != "validation" {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err.Error() != "invalid request body" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("bind: %w", BadRequest("invalid id", nil))
	e, ok := As(wrapped)
	if !ok || e.Message != "invalid id" {
		t.Fatalf("As(wrapped) = %+v %v", e, ok)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("plain error should not match")
	}
}

func TestErrorFallbacks(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil error text")
	}
	if got := New(http.StatusTeapot, "", "", nil).Error(); got != "api error (418)" {
		t.Fatalf("status fallback = %q", got)
	}
	if got := New(0, "conflict", "", nil).Error(); got != "conflict" {
		t.Fatalf("code fallback = %q", got)
	}
}
