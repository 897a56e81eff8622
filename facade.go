package wastemarket

import (
	"fmt"

	marketcommand "github.com/goliatone/go-waste-market/command"
	marketquery "github.com/goliatone/go-waste-market/query"
)

// CommandQueryService is the surface the facade needs from the core service:
// every mutation plus the read side for listings and payments.
type CommandQueryService interface {
	marketcommand.MutatingService
	marketquery.WasteReader
	marketquery.PaymentReader
}

type Commands struct {
	CreateWaste     *marketcommand.CreateWasteCommand
	UpdateWaste     *marketcommand.UpdateWasteCommand
	InitiatePayment *marketcommand.InitiatePaymentCommand
	ConfirmPayment  *marketcommand.ConfirmPaymentCommand
	DiscardOrder    *marketcommand.DiscardOrderCommand
}

type Queries struct {
	GetActiveWaste       *marketquery.GetActiveWasteQuery
	ListActiveByCategory *marketquery.ListActiveByCategoryQuery
	ListActiveWastes     *marketquery.ListActiveWastesQuery
	ListInactiveWastes   *marketquery.ListInactiveWastesQuery
	GetPayment           *marketquery.GetPaymentQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	wasteReader   marketquery.WasteReader
	paymentReader marketquery.PaymentReader
}

func WithWasteReader(reader marketquery.WasteReader) FacadeOption {
	return func(options *facadeOptions) {
		options.wasteReader = reader
	}
}

func WithPaymentReader(reader marketquery.PaymentReader) FacadeOption {
	return func(options *facadeOptions) {
		options.paymentReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("wastemarket: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	wasteReader := cfg.wasteReader
	if wasteReader == nil {
		wasteReader = service
	}
	paymentReader := cfg.paymentReader
	if paymentReader == nil {
		paymentReader = service
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		CreateWaste:     marketcommand.NewCreateWasteCommand(service),
		UpdateWaste:     marketcommand.NewUpdateWasteCommand(service),
		InitiatePayment: marketcommand.NewInitiatePaymentCommand(service),
		ConfirmPayment:  marketcommand.NewConfirmPaymentCommand(service),
		DiscardOrder:    marketcommand.NewDiscardOrderCommand(service),
	}
	facade.queries = Queries{
		GetActiveWaste:       marketquery.NewGetActiveWasteQuery(wasteReader),
		ListActiveByCategory: marketquery.NewListActiveByCategoryQuery(wasteReader),
		ListActiveWastes:     marketquery.NewListActiveWastesQuery(wasteReader),
		ListInactiveWastes:   marketquery.NewListInactiveWastesQuery(wasteReader),
		GetPayment:           marketquery.NewGetPaymentQuery(paymentReader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
