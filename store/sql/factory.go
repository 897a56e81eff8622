package sqlstore

import (
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-waste-market/core"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	ownerStore    *OwnerStore
	userStore     *UserStore
	categoryStore *CategoryStore
	listingStore  *ListingStore
	paymentStore  *PaymentStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.listingStore != nil && f.paymentStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) OwnerStore() core.OwnerStore {
	if f == nil {
		return nil
	}
	return f.ownerStore
}

func (f *RepositoryFactory) UserStore() core.UserStore {
	if f == nil {
		return nil
	}
	return f.userStore
}

func (f *RepositoryFactory) CategoryStore() core.CategoryStore {
	if f == nil {
		return nil
	}
	return f.categoryStore
}

func (f *RepositoryFactory) ListingStore() core.ListingStore {
	if f == nil {
		return nil
	}
	return f.listingStore
}

func (f *RepositoryFactory) PaymentStore() core.PaymentStore {
	if f == nil {
		return nil
	}
	return f.paymentStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	listingRepo := repository.NewRepository[*wasteListingRecord](f.db, wasteListingHandlers())
	if validator, ok := listingRepo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("sqlstore: invalid listing repository wiring: %w", err)
		}
	}

	paymentRepo := repository.NewRepository[*paymentRecord](f.db, paymentHandlers())
	if validator, ok := paymentRepo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("sqlstore: invalid payment repository wiring: %w", err)
		}
	}

	f.ownerStore = &OwnerStore{
		db:   f.db,
		repo: repository.NewRepository[*ownerRecord](f.db, ownerHandlers()),
	}
	f.userStore = &UserStore{
		db:   f.db,
		repo: repository.NewRepository[*userRecord](f.db, userHandlers()),
	}
	f.categoryStore = &CategoryStore{
		db:   f.db,
		repo: repository.NewRepository[*categoryRecord](f.db, categoryHandlers()),
	}
	f.listingStore = &ListingStore{
		db:   f.db,
		repo: listingRepo,
	}
	f.paymentStore = &PaymentStore{
		db:   f.db,
		repo: paymentRepo,
	}
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
