package core

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the marketplace core: listing lifecycle, payment processing and
// ledger verification over injected stores and collaborators.
type Service struct {
	config           Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	errorFactory     ErrorFactory
	errorMapper      ErrorMapper
	ownerStore       OwnerStore
	userStore        UserStore
	categoryStore    CategoryStore
	listingStore     ListingStore
	paymentStore     PaymentStore
	ledgerClient     LedgerClient
	addressDeriver   AddressDeriver
	pendingOrders    PendingOrderTable
	timeoutScheduler TimeoutScheduler
	initiationPolicy InitiationPolicy
	memoGenerator    *MemoGenerator
	clock            func() time.Time
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("waste-market", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("waste-market"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.memoGenerator == nil {
		builder.memoGenerator = &MemoGenerator{}
	}
	if builder.clock == nil {
		builder.clock = func() time.Time { return time.Now().UTC() }
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if storesMissing(builder) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			provider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if provider != nil {
				if builder.ownerStore == nil {
					builder.ownerStore = provider.OwnerStore()
				}
				if builder.userStore == nil {
					builder.userStore = provider.UserStore()
				}
				if builder.categoryStore == nil {
					builder.categoryStore = provider.CategoryStore()
				}
				if builder.listingStore == nil {
					builder.listingStore = provider.ListingStore()
				}
				if builder.paymentStore == nil {
					builder.paymentStore = provider.PaymentStore()
				}
			}
		}
	}

	if builder.pendingOrders == nil {
		builder.pendingOrders = NewMemoryPendingOrderTable(finalConfig.Payments.Window)
	}
	if builder.timeoutScheduler == nil {
		scheduler := NewTimerTimeoutScheduler()
		scheduler.Now = builder.clock
		builder.timeoutScheduler = scheduler
	}

	return &Service{
		config:           finalConfig,
		logger:           logger,
		loggerProvider:   provider,
		metricsRecorder:  builder.metricsRecorder,
		errorFactory:     builder.errorFactory,
		errorMapper:      builder.errorMapper,
		ownerStore:       builder.ownerStore,
		userStore:        builder.userStore,
		categoryStore:    builder.categoryStore,
		listingStore:     builder.listingStore,
		paymentStore:     builder.paymentStore,
		ledgerClient:     builder.ledgerClient,
		addressDeriver:   builder.addressDeriver,
		pendingOrders:    builder.pendingOrders,
		timeoutScheduler: builder.timeoutScheduler,
		initiationPolicy: builder.initiationPolicy,
		memoGenerator:    builder.memoGenerator,
		clock:            builder.clock,
	}, nil
}

func storesMissing(builder serviceBuilder) bool {
	return builder.ownerStore == nil ||
		builder.userStore == nil ||
		builder.categoryStore == nil ||
		builder.listingStore == nil ||
		builder.paymentStore == nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) now() time.Time {
	if s != nil && s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return defaultErrorMapper(err)
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return nil
	}
	return mapped
}

// recoverOperation converts a panic inside an operation into a tagged
// internal error so no fault escapes the operation boundary.
func (s *Service) recoverOperation(operation string, errOut *error) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("core: %s panicked: %v", operation, r)
	if errOut != nil {
		*errOut = s.mapError(goerrors.New(err.Error(), goerrors.CategoryInternal).
			WithTextCode(MarketErrorInternal))
	}
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return defaultErrorMapper(err)
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// resolveActor loads the caller's user record and enforces registration and
// the active flag. Unregistered callers are unauthorized; inactive users are
// forbidden from acting.
func (s *Service) resolveActor(ctx context.Context, caller Identity) (User, error) {
	if err := caller.Validate(); err != nil {
		return User{}, err
	}
	if s.userStore == nil {
		return User{}, fmt.Errorf("core: user store is not configured")
	}
	user, err := s.userStore.Get(ctx, caller)
	if err != nil {
		if isNotFound(err) {
			return User{}, goerrors.New(
				fmt.Sprintf("core: identity %q has no account registered", caller),
				goerrors.CategoryAuth,
			).WithTextCode(MarketErrorUnauthorized)
		}
		return User{}, err
	}
	if !user.Active {
		return User{}, goerrors.New(
			fmt.Sprintf("core: user %q is inactive", caller),
			goerrors.CategoryAuthz,
		).WithTextCode(MarketErrorInactiveUser)
	}
	return user, nil
}
