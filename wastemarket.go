package wastemarket

import (
	"github.com/goliatone/go-waste-market/core"
	sqlstore "github.com/goliatone/go-waste-market/store/sql"
)

type Config = core.Config

type PaymentsConfig = core.PaymentsConfig

type LedgerConfig = core.LedgerConfig

type Option = core.Option

type Service = core.Service

type Identity = core.Identity
type Role = core.Role
type Owner = core.Owner
type User = core.User
type Category = core.Category
type WasteStatus = core.WasteStatus
type WasteListing = core.WasteListing
type Payment = core.Payment
type PendingOrder = core.PendingOrder
type ListingFilter = core.ListingFilter

type OwnerStore = core.OwnerStore
type UserStore = core.UserStore
type CategoryStore = core.CategoryStore
type ListingStore = core.ListingStore
type PaymentStore = core.PaymentStore
type LedgerClient = core.LedgerClient
type AddressDeriver = core.AddressDeriver
type PendingOrderTable = core.PendingOrderTable
type TimeoutScheduler = core.TimeoutScheduler
type InitiationPolicy = core.InitiationPolicy

type CreateWasteRequest = core.CreateWasteRequest
type UpdateWasteRequest = core.UpdateWasteRequest
type UpdateWastePayload = core.UpdateWastePayload

type InitiatePaymentRequest = core.InitiatePaymentRequest
type PaymentInstructions = core.PaymentInstructions
type ConfirmPaymentRequest = core.ConfirmPaymentRequest

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithOwnerStore        = core.WithOwnerStore
	WithUserStore         = core.WithUserStore
	WithCategoryStore     = core.WithCategoryStore
	WithListingStore      = core.WithListingStore
	WithPaymentStore      = core.WithPaymentStore
	WithLedgerClient      = core.WithLedgerClient
	WithAddressDeriver    = core.WithAddressDeriver
	WithPendingOrderTable = core.WithPendingOrderTable
	WithTimeoutScheduler  = core.WithTimeoutScheduler
	WithInitiationPolicy  = core.WithInitiationPolicy
	WithClock             = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

// Setup builds a service wired with the SQL repository factory so callers that
// pass a persistence client get the full store set without extra plumbing.
func Setup(cfg Config, opts ...Option) (*Service, error) {
	base := []Option{core.WithRepositoryFactory(sqlstore.NewRepositoryFactory())}
	return core.NewService(cfg, append(base, opts...)...)
}
