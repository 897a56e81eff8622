package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Store contracts. Implementations return errors wrapping ErrRecordNotFound
// when the keyed record is absent.

type OwnerStore interface {
	Get(ctx context.Context, identity Identity) (Owner, error)
	Save(ctx context.Context, owner Owner) (Owner, error)
}

type UserStore interface {
	Get(ctx context.Context, identity Identity) (User, error)
	Save(ctx context.Context, user User) (User, error)
}

type CategoryStore interface {
	Get(ctx context.Context, id string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category Category) (Category, error)
}

type ListingStore interface {
	Get(ctx context.Context, id string) (WasteListing, error)
	Create(ctx context.Context, listing WasteListing) (WasteListing, error)
	Update(ctx context.Context, listing WasteListing) (WasteListing, error)
	List(ctx context.Context, filter ListingFilter) ([]WasteListing, error)
}

type PaymentStore interface {
	Get(ctx context.Context, id string) (Payment, error)
	Create(ctx context.Context, payment Payment) (Payment, error)
	ListByListing(ctx context.Context, listingID string) ([]Payment, error)
}

type StoreProvider interface {
	OwnerStore() OwnerStore
	UserStore() UserStore
	CategoryStore() CategoryStore
	ListingStore() ListingStore
	PaymentStore() PaymentStore
}

// RepositoryStoreFactory builds the persisted store set from a persistence
// client; the sql store factory satisfies this without core importing it.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// LedgerTransfer is the asset movement recorded in an external ledger block.
type LedgerTransfer struct {
	From   string
	To     string
	Amount int64
	Memo   uint64
}

// LedgerBlock is one append-only external ledger entry. Blocks that carry no
// transfer operation have a nil Transfer.
type LedgerBlock struct {
	Index    uint64
	Transfer *LedgerTransfer
}

// LedgerClient reads a bounded window of blocks from the external ledger.
// The call crosses a system boundary; failures are reported as errors and
// never mutate local state.
type LedgerClient interface {
	QueryBlocks(ctx context.Context, start uint64, length uint64) ([]LedgerBlock, error)
}

// AddressDeriver maps a caller identity to its ledger account address.
type AddressDeriver interface {
	AccountAddress(identity Identity) string
}

// PendingOrderTable holds in-flight payment attempts keyed by memo. Claim
// rejects a memo that collides with a live order; Remove reports whether the
// order was still present, so both the confirm path and the timeout path can
// treat "already removed" as a no-op.
type PendingOrderTable interface {
	Claim(ctx context.Context, order PendingOrder) error
	Get(ctx context.Context, memo uint64) (PendingOrder, bool, error)
	Remove(ctx context.Context, memo uint64) (PendingOrder, bool, error)
	PurgeExpired(ctx context.Context) (int, error)
}

// TimeoutScheduler arms one-shot expiry callbacks keyed by memo. Disarm makes
// a not-yet-fired callback a no-op and tolerates the callback firing
// concurrently.
type TimeoutScheduler interface {
	Arm(memo uint64, at time.Time, fire func()) error
	Disarm(memo uint64) error
}

// InitiationPolicy optionally throttles payment initiation per buyer.
type InitiationPolicy interface {
	AllowInitiate(ctx context.Context, buyer Identity, now time.Time) error
}
