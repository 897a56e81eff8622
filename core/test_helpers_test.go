package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryUserStore struct {
	mu   sync.Mutex
	byID map[Identity]User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byID: map[Identity]User{}}
}

func (s *memoryUserStore) Get(_ context.Context, identity Identity) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[identity]
	if !ok {
		return User{}, fmt.Errorf("%w: user %q", ErrRecordNotFound, identity)
	}
	return user, nil
}

func (s *memoryUserStore) Save(_ context.Context, user User) (User, error) {
	if err := user.Identity.Validate(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.Identity] = user
	return user, nil
}

type memoryOwnerStore struct {
	mu   sync.Mutex
	byID map[Identity]Owner
}

func newMemoryOwnerStore() *memoryOwnerStore {
	return &memoryOwnerStore{byID: map[Identity]Owner{}}
}

func (s *memoryOwnerStore) Get(_ context.Context, identity Identity) (Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.byID[identity]
	if !ok {
		return Owner{}, fmt.Errorf("%w: owner %q", ErrRecordNotFound, identity)
	}
	return owner, nil
}

func (s *memoryOwnerStore) Save(_ context.Context, owner Owner) (Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[owner.Identity] = owner
	return owner, nil
}

type memoryCategoryStore struct {
	mu   sync.Mutex
	byID map[string]Category
}

func newMemoryCategoryStore() *memoryCategoryStore {
	return &memoryCategoryStore{byID: map[string]Category{}}
}

func (s *memoryCategoryStore) Get(_ context.Context, id string) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.byID[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %q", ErrRecordNotFound, id)
	}
	return category, nil
}

func (s *memoryCategoryStore) List(_ context.Context) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, 0, len(s.byID))
	for _, category := range s.byID {
		out = append(out, category)
	}
	return out, nil
}

func (s *memoryCategoryStore) Save(_ context.Context, category Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[category.ID] = category
	return category, nil
}

type memoryListingStore struct {
	mu   sync.Mutex
	byID map[string]WasteListing
}

func newMemoryListingStore() *memoryListingStore {
	return &memoryListingStore{byID: map[string]WasteListing{}}
}

func (s *memoryListingStore) Get(_ context.Context, id string) (WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.byID[id]
	if !ok {
		return WasteListing{}, fmt.Errorf("%w: listing %q", ErrRecordNotFound, id)
	}
	return listing, nil
}

func (s *memoryListingStore) Create(_ context.Context, listing WasteListing) (WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[listing.ID]; exists {
		return WasteListing{}, fmt.Errorf("duplicate listing %q", listing.ID)
	}
	s.byID[listing.ID] = listing
	return listing, nil
}

func (s *memoryListingStore) Update(_ context.Context, listing WasteListing) (WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[listing.ID]; !exists {
		return WasteListing{}, fmt.Errorf("%w: listing %q", ErrRecordNotFound, listing.ID)
	}
	s.byID[listing.ID] = listing
	return listing, nil
}

func (s *memoryListingStore) List(_ context.Context, filter ListingFilter) ([]WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []WasteListing{}
	for _, listing := range s.byID {
		if filter.Status != nil && listing.Status != *filter.Status {
			continue
		}
		if filter.CategoryID != "" && listing.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Author != "" && listing.Author != filter.Author {
			continue
		}
		out = append(out, listing)
	}
	return out, nil
}

type memoryPaymentStore struct {
	mu   sync.Mutex
	byID map[string]Payment
}

func newMemoryPaymentStore() *memoryPaymentStore {
	return &memoryPaymentStore{byID: map[string]Payment{}}
}

func (s *memoryPaymentStore) Get(_ context.Context, id string) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.byID[id]
	if !ok {
		return Payment{}, fmt.Errorf("%w: payment %q", ErrRecordNotFound, id)
	}
	return payment, nil
}

func (s *memoryPaymentStore) Create(_ context.Context, payment Payment) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[payment.ID] = payment
	return payment, nil
}

func (s *memoryPaymentStore) ListByListing(_ context.Context, listingID string) ([]Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Payment{}
	for _, payment := range s.byID {
		if payment.ListingID == listingID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (s *memoryPaymentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// fakeLedgerClient serves a fixed block sequence and can be told to fail.
type fakeLedgerClient struct {
	mu     sync.Mutex
	blocks []LedgerBlock
	err    error
	calls  int
}

func (c *fakeLedgerClient) QueryBlocks(_ context.Context, start uint64, length uint64) ([]LedgerBlock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := []LedgerBlock{}
	for _, block := range c.blocks {
		if block.Index >= start && block.Index < start+length {
			out = append(out, block)
		}
	}
	return out, nil
}

func (c *fakeLedgerClient) setTransfer(index uint64, transfer LedgerTransfer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, LedgerBlock{Index: index, Transfer: &transfer})
}

// manualTimeoutScheduler records armed callbacks so tests can fire the
// deadline deterministically.
type manualTimeoutScheduler struct {
	mu       sync.Mutex
	armed    map[uint64]func()
	disarmed []uint64
}

func newManualTimeoutScheduler() *manualTimeoutScheduler {
	return &manualTimeoutScheduler{armed: map[uint64]func(){}}
}

func (s *manualTimeoutScheduler) Arm(memo uint64, _ time.Time, fire func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[memo] = fire
	return nil
}

func (s *manualTimeoutScheduler) Disarm(memo uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.armed, memo)
	s.disarmed = append(s.disarmed, memo)
	return nil
}

func (s *manualTimeoutScheduler) fire(memo uint64) bool {
	s.mu.Lock()
	callback, ok := s.armed[memo]
	delete(s.armed, memo)
	s.mu.Unlock()
	if !ok {
		return false
	}
	callback()
	return true
}

func (s *manualTimeoutScheduler) armedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

type marketFixture struct {
	users      *memoryUserStore
	owners     *memoryOwnerStore
	categories *memoryCategoryStore
	listings   *memoryListingStore
	payments   *memoryPaymentStore
	ledger     *fakeLedgerClient
	timeouts   *manualTimeoutScheduler
	pending    *MemoryPendingOrderTable
	now        time.Time
}

func newMarketFixture() *marketFixture {
	return &marketFixture{
		users:      newMemoryUserStore(),
		owners:     newMemoryOwnerStore(),
		categories: newMemoryCategoryStore(),
		listings:   newMemoryListingStore(),
		payments:   newMemoryPaymentStore(),
		ledger:     &fakeLedgerClient{},
		timeouts:   newManualTimeoutScheduler(),
		pending:    NewMemoryPendingOrderTable(5 * time.Minute),
		now:        time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (f *marketFixture) clock() time.Time {
	return f.now
}

func (f *marketFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *marketFixture) service(extra ...Option) (*Service, error) {
	f.pending.Now = f.clock
	options := []Option{
		WithUserStore(f.users),
		WithOwnerStore(f.owners),
		WithCategoryStore(f.categories),
		WithListingStore(f.listings),
		WithPaymentStore(f.payments),
		WithLedgerClient(f.ledger),
		WithTimeoutScheduler(f.timeouts),
		WithPendingOrderTable(f.pending),
		WithClock(f.clock),
	}
	options = append(options, extra...)
	return NewService(Config{}, options...)
}

func (f *marketFixture) addUser(identity Identity, role Role, active bool) {
	_, _ = f.users.Save(context.Background(), User{
		Identity:  identity,
		Name:      string(identity),
		Role:      role,
		Active:    active,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	})
}

func (f *marketFixture) addCategory(id string) {
	_, _ = f.categories.Save(context.Background(), Category{
		ID:        id,
		Name:      id,
		Active:    true,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	})
}
