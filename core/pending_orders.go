package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultPendingOrderTTL = 5 * time.Minute
const defaultPendingOrderMaxEntries = 8192

// MemoryPendingOrderTable is the ephemeral pending-order table keyed by memo.
// Orders are short-lived and rebuilt per session; losing them on restart is
// acceptable because every order is time-bounded.
type MemoryPendingOrderTable struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	maxEntries int
	entries    map[uint64]PendingOrder
	Now        func() time.Time
}

func NewMemoryPendingOrderTable(defaultTTL time.Duration) *MemoryPendingOrderTable {
	return NewMemoryPendingOrderTableWithLimits(defaultTTL, defaultPendingOrderMaxEntries)
}

func NewMemoryPendingOrderTableWithLimits(defaultTTL time.Duration, maxEntries int) *MemoryPendingOrderTable {
	if defaultTTL <= 0 {
		defaultTTL = defaultPendingOrderTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultPendingOrderMaxEntries
	}
	return &MemoryPendingOrderTable{
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		entries:    map[uint64]PendingOrder{},
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Claim inserts the order, rejecting a memo that collides with a live order.
func (t *MemoryPendingOrderTable) Claim(_ context.Context, order PendingOrder) error {
	if t == nil {
		return fmt.Errorf("core: pending order table is not configured")
	}
	if err := order.Validate(); err != nil {
		return err
	}
	now := t.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.Deadline.IsZero() {
		order.Deadline = order.CreatedAt.Add(t.defaultTTL)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneExpiredLocked(now)
	if existing, ok := t.entries[order.Memo]; ok && now.Before(existing.Deadline) {
		return fmt.Errorf("%w: %d", ErrMemoCollision, order.Memo)
	}
	if len(t.entries) >= t.maxEntries {
		return fmt.Errorf("core: pending order table is full")
	}
	t.entries[order.Memo] = order
	return nil
}

func (t *MemoryPendingOrderTable) Get(_ context.Context, memo uint64) (PendingOrder, bool, error) {
	if t == nil {
		return PendingOrder{}, false, fmt.Errorf("core: pending order table is not configured")
	}
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	order, ok := t.entries[memo]
	if !ok || !now.Before(order.Deadline) {
		return PendingOrder{}, false, nil
	}
	return order, true, nil
}

// Remove deletes the order if still present and reports whether it was. Both
// the confirm path and the timeout path call this; "already removed" is a
// successful no-op on either side of the race.
func (t *MemoryPendingOrderTable) Remove(_ context.Context, memo uint64) (PendingOrder, bool, error) {
	if t == nil {
		return PendingOrder{}, false, fmt.Errorf("core: pending order table is not configured")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	order, ok := t.entries[memo]
	if !ok {
		return PendingOrder{}, false, nil
	}
	delete(t.entries, memo)
	return order, true, nil
}

func (t *MemoryPendingOrderTable) PurgeExpired(_ context.Context) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("core: pending order table is not configured")
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	pruned := 0
	for memo, order := range t.entries {
		if !now.Before(order.Deadline) {
			delete(t.entries, memo)
			pruned++
		}
	}
	return pruned, nil
}

func (t *MemoryPendingOrderTable) pruneExpiredLocked(now time.Time) {
	for memo, order := range t.entries {
		if !now.Before(order.Deadline) {
			delete(t.entries, memo)
		}
	}
}

func (t *MemoryPendingOrderTable) now() time.Time {
	if t != nil && t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}

var _ PendingOrderTable = (*MemoryPendingOrderTable)(nil)
