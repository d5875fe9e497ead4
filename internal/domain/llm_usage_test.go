package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCompletionUsage_RoundTrip(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())

	got := UsageFromContext(ctx)
	if got != u {
		t.Fatal("expected the same collector from context")
	}

	got.Record("primary", 120)
	got.MarkFallback()
	got.Record("fallback", 30)

	if u.Model != "fallback" {
		t.Errorf("expected last model, got %q", u.Model)
	}
	if u.TotalTokens != 150 {
		t.Errorf("expected 150 tokens, got %d", u.TotalTokens)
	}
	if u.Calls != 2 {
		t.Errorf("expected 2 calls, got %d", u.Calls)
	}
	if !u.Fallback {
		t.Error("expected fallback flag")
	}
}

func TestCompletionUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil collector")
	}
	// must not panic
	u.Record("m", 1)
	u.MarkFallback()
}

func TestIsRoutingError(t *testing.T) {
	routing := &ProviderError{Model: "a/b", StatusCode: 404, Err: ErrModelNotFound}
	if !IsRoutingError(routing) {
		t.Error("expected routing error")
	}
	if !IsRoutingError(fmt.Errorf("chat: %w", routing)) {
		t.Error("expected wrapped routing error")
	}

	generic := &ProviderError{Model: "a/b", StatusCode: 500, Err: ErrProviderError}
	if IsRoutingError(generic) {
		t.Error("provider error must not be routing")
	}
	if IsRoutingError(errors.New("boom")) {
		t.Error("plain error must not be routing")
	}
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{Model: "m", StatusCode: 429, Err: errors.New("rate limited")}
	if err.Error() != "model m: status 429: rate limited" {
		t.Errorf("unexpected message %q", err.Error())
	}

	err = &ProviderError{Model: "m", Err: errors.New("dial tcp")}
	if err.Error() != "model m: dial tcp" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
