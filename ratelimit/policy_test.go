package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-waste-market/core"
)

func TestAdaptivePolicy_AllowsUpToWindowLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	policy.Now = func() time.Time { return now }
	policy.MaxPerWindow = 3
	policy.Window = time.Minute

	for i := 0; i < 3; i++ {
		if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err != nil {
			t.Fatalf("initiate %d: %v", i+1, err)
		}
	}

	err := policy.AllowInitiate(context.Background(), "buyer-1", now)
	var throttled ThrottledError
	if !errors.As(err, &throttled) {
		t.Fatalf("expected throttled error, got %v", err)
	}
	if throttled.Buyer != "buyer-1" {
		t.Fatalf("unexpected throttled buyer %q", throttled.Buyer)
	}
	if throttled.RetryAfter <= 0 {
		t.Fatalf("expected positive retry after, got %s", throttled.RetryAfter)
	}
}

func TestAdaptivePolicy_ThrottleHoldsUntilBackoffElapses(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	policy.MaxPerWindow = 1
	policy.Window = time.Minute
	policy.InitialBackoff = 2 * time.Second

	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err != nil {
		t.Fatalf("first initiate: %v", err)
	}
	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err == nil {
		t.Fatalf("expected throttle on second initiate")
	}

	if err := policy.AllowInitiate(context.Background(), "buyer-1", now.Add(time.Second)); err == nil {
		t.Fatalf("expected throttle to hold inside backoff")
	}
	if err := policy.AllowInitiate(context.Background(), "buyer-1", now.Add(3*time.Second)); err == nil {
		t.Fatalf("expected count to still exceed window limit after backoff")
	}
}

func TestAdaptivePolicy_WindowResetClearsCountAndAttempts(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	policy.MaxPerWindow = 1
	policy.Window = time.Minute
	policy.InitialBackoff = time.Second

	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err != nil {
		t.Fatalf("first initiate: %v", err)
	}
	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err == nil {
		t.Fatalf("expected throttle inside window")
	}

	later := now.Add(2 * time.Minute)
	if err := policy.AllowInitiate(context.Background(), "buyer-1", later); err != nil {
		t.Fatalf("expected fresh window to allow initiate: %v", err)
	}
}

func TestAdaptivePolicy_RepeatViolationsGrowBackoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStateStore()
	policy := NewAdaptivePolicy(store)
	policy.MaxPerWindow = 1
	policy.Window = time.Hour
	policy.InitialBackoff = time.Second
	policy.MaxBackoff = time.Minute

	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err != nil {
		t.Fatalf("first initiate: %v", err)
	}

	var previous time.Duration
	at := now
	for i := 0; i < 3; i++ {
		state, err := store.Get(context.Background(), "buyer-1")
		if err != nil {
			t.Fatalf("load state: %v", err)
		}
		if state.ThrottledUntil != nil {
			at = state.ThrottledUntil.Add(time.Millisecond)
		}
		err = policy.AllowInitiate(context.Background(), "buyer-1", at)
		var throttled ThrottledError
		if !errors.As(err, &throttled) {
			t.Fatalf("violation %d: expected throttled error, got %v", i+1, err)
		}
		if throttled.RetryAfter < previous {
			t.Fatalf("violation %d: backoff shrank from %s to %s", i+1, previous, throttled.RetryAfter)
		}
		previous = throttled.RetryAfter
	}
}

func TestAdaptivePolicy_TracksBuyersIndependently(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	policy.MaxPerWindow = 1
	policy.Window = time.Minute

	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err != nil {
		t.Fatalf("buyer-1 initiate: %v", err)
	}
	if err := policy.AllowInitiate(context.Background(), "buyer-1", now); err == nil {
		t.Fatalf("expected buyer-1 throttle")
	}
	if err := policy.AllowInitiate(context.Background(), "buyer-2", now); err != nil {
		t.Fatalf("buyer-2 should not be throttled: %v", err)
	}
}

func TestAdaptivePolicy_NormalizesBuyerIdentity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	policy.MaxPerWindow = 1
	policy.Window = time.Minute

	if err := policy.AllowInitiate(context.Background(), "Buyer-1", now); err != nil {
		t.Fatalf("first initiate: %v", err)
	}
	if err := policy.AllowInitiate(context.Background(), "  buyer-1 ", now); err == nil {
		t.Fatalf("expected normalized identity to share the window")
	}
}

func TestAdaptivePolicy_RequiresBuyer(t *testing.T) {
	policy := NewAdaptivePolicy(NewMemoryStateStore())
	if err := policy.AllowInitiate(context.Background(), "  ", time.Now()); err == nil {
		t.Fatalf("expected error for blank buyer")
	}
}

func TestAdaptivePolicy_NilStoreAllowsEverything(t *testing.T) {
	policy := &AdaptivePolicy{}
	if err := policy.AllowInitiate(context.Background(), "buyer-1", time.Now()); err != nil {
		t.Fatalf("expected nil store policy to allow: %v", err)
	}
}

func TestMemoryStateStore_MissingBuyerReturnsSentinel(t *testing.T) {
	store := NewMemoryStateStore()
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}

	state := State{Buyer: core.Identity("Buyer-1"), Count: 2, WindowStart: time.Now().UTC()}
	if err := store.Upsert(context.Background(), state); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	loaded, err := store.Get(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Count != 2 {
		t.Fatalf("unexpected state: %#v", loaded)
	}
}
