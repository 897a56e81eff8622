package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-waste-market/core"
)

var ErrStateNotFound = errors.New("ratelimit: state not found")

type State struct {
	Buyer          core.Identity
	WindowStart    time.Time
	Count          int
	ThrottledUntil *time.Time
	Attempts       int
	UpdatedAt      time.Time
}

type StateStore interface {
	Get(ctx context.Context, buyer core.Identity) (State, error)
	Upsert(ctx context.Context, state State) error
}

type ThrottledError struct {
	Buyer      core.Identity
	RetryAfter time.Duration
}

func (e ThrottledError) Error() string {
	return fmt.Sprintf(
		"ratelimit: buyer %q throttled for %s",
		strings.TrimSpace(string(e.Buyer)),
		e.RetryAfter,
	)
}

func (e ThrottledError) ToServiceError() *goerrors.Error {
	metadata := map[string]any{
		"buyer": strings.TrimSpace(string(e.Buyer)),
	}
	if e.RetryAfter > 0 {
		metadata["retry_after_ms"] = e.RetryAfter.Milliseconds()
	}
	return goerrors.New(e.Error(), goerrors.CategoryRateLimit).
		WithCode(http.StatusTooManyRequests).
		WithTextCode(core.MarketErrorRateLimited).
		WithMetadata(metadata)
}

// AdaptivePolicy throttles payment initiation per buyer over a sliding
// window. Buyers that keep hammering past the limit earn an exponentially
// longer cool-down.
type AdaptivePolicy struct {
	Store          StateStore
	Now            func() time.Time
	MaxPerWindow   int
	Window         time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func NewAdaptivePolicy(store StateStore) *AdaptivePolicy {
	return &AdaptivePolicy{
		Store:          store,
		Now:            func() time.Time { return time.Now().UTC() },
		MaxPerWindow:   10,
		Window:         time.Minute,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Minute,
	}
}

func (p *AdaptivePolicy) AllowInitiate(ctx context.Context, buyer core.Identity, now time.Time) error {
	if p == nil || p.Store == nil {
		return nil
	}
	buyer = normalizeBuyer(buyer)
	if buyer == "" {
		return fmt.Errorf("ratelimit: buyer identity is required")
	}
	if now.IsZero() {
		now = p.now()
	}
	now = now.UTC()

	state, err := p.Store.Get(ctx, buyer)
	if err != nil && !errors.Is(err, ErrStateNotFound) {
		return err
	}
	if errors.Is(err, ErrStateNotFound) {
		state = State{Buyer: buyer, WindowStart: now}
	}

	if until := state.ThrottledUntil; until != nil && now.Before(*until) {
		return ThrottledError{Buyer: buyer, RetryAfter: until.Sub(now)}
	}

	if now.Sub(state.WindowStart) >= p.window() {
		state.WindowStart = now
		state.Count = 0
		state.Attempts = 0
	}
	state.ThrottledUntil = nil
	state.Count++
	state.UpdatedAt = now

	if state.Count > p.maxPerWindow() {
		state.Attempts++
		until := now.Add(p.nextBackoff(state.Attempts))
		state.ThrottledUntil = &until
		if err := p.Store.Upsert(ctx, state); err != nil {
			return err
		}
		return ThrottledError{Buyer: buyer, RetryAfter: until.Sub(now)}
	}

	return p.Store.Upsert(ctx, state)
}

func (p *AdaptivePolicy) now() time.Time {
	if p != nil && p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *AdaptivePolicy) window() time.Duration {
	if p != nil && p.Window > 0 {
		return p.Window
	}
	return time.Minute
}

func (p *AdaptivePolicy) maxPerWindow() int {
	if p != nil && p.MaxPerWindow > 0 {
		return p.MaxPerWindow
	}
	return 10
}

func (p *AdaptivePolicy) nextBackoff(attempt int) time.Duration {
	initial := p.InitialBackoff
	if initial <= 0 {
		initial = time.Second
	}
	maximum := p.MaxBackoff
	if maximum <= 0 {
		maximum = time.Minute
	}
	if attempt <= 0 {
		return initial
	}
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maximum {
			return maximum
		}
	}
	if delay > maximum {
		return maximum
	}
	return delay
}

func normalizeBuyer(buyer core.Identity) core.Identity {
	return core.Identity(strings.TrimSpace(strings.ToLower(string(buyer))))
}

type MemoryStateStore struct {
	mu    sync.RWMutex
	items map[core.Identity]State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{items: map[core.Identity]State{}}
}

func (s *MemoryStateStore) Get(_ context.Context, buyer core.Identity) (State, error) {
	if s == nil {
		return State{}, fmt.Errorf("ratelimit: state store is nil")
	}
	normalized := normalizeBuyer(buyer)
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.items[normalized]
	if !ok {
		return State{}, ErrStateNotFound
	}
	return state, nil
}

func (s *MemoryStateStore) Upsert(_ context.Context, state State) error {
	if s == nil {
		return fmt.Errorf("ratelimit: state store is nil")
	}
	state.Buyer = normalizeBuyer(state.Buyer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[state.Buyer] = state
	return nil
}

var _ core.InitiationPolicy = (*AdaptivePolicy)(nil)
