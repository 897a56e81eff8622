package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"

	wastemarket "github.com/goliatone/go-waste-market"
	"github.com/goliatone/go-waste-market/core"
	marketquery "github.com/goliatone/go-waste-market/query"
)

type okMessage struct{}

func (okMessage) Type() string { return "market.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "market.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "market.command.test" }

type queueMessage struct{}

func (queueMessage) Type() string { return "market.command.queue" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	subscription, err := RegisterAndSubscribe(adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer subscription.Unsubscribe()

	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.RegisterCommand(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get("market.command.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}

func TestRegisterMarketHandlers_SubscribesFacadeSurface(t *testing.T) {
	service := &stubMarketService{
		listing: core.WasteListing{ID: "listing-1", Status: core.WasteStatusVerified},
		payment: core.Payment{ID: "payment-1", Fee: 50},
	}
	facade, err := wastemarket.NewFacade(service)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	adapter := NewRegistryAdapter(command.NewRegistry())
	subscriptions, err := RegisterMarketHandlers(adapter, facade)
	if err != nil {
		t.Fatalf("register market handlers: %v", err)
	}
	defer func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}()
	if len(subscriptions) != 10 {
		t.Fatalf("expected 10 subscriptions, got %d", len(subscriptions))
	}

	listing, err := Query[marketquery.GetActiveWasteMessage, core.WasteListing](
		context.Background(),
		marketquery.GetActiveWasteMessage{ListingID: "listing-1"},
	)
	if err != nil {
		t.Fatalf("query active waste through dispatcher: %v", err)
	}
	if listing.ID != "listing-1" {
		t.Fatalf("unexpected listing result: %#v", listing)
	}
	if service.getWasteCalls != 1 {
		t.Fatalf("expected one service read, got %d", service.getWasteCalls)
	}
}

func TestRegisterMarketHandlers_RequiresFacade(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	if _, err := RegisterMarketHandlers(adapter, nil); err == nil {
		t.Fatalf("expected error without facade")
	}
}

type stubMarketService struct {
	listing       core.WasteListing
	payment       core.Payment
	getWasteCalls int
}

func (s *stubMarketService) CreateWaste(context.Context, core.CreateWasteRequest) (core.WasteListing, error) {
	return s.listing, nil
}

func (s *stubMarketService) UpdateWaste(context.Context, core.UpdateWasteRequest) (core.WasteListing, error) {
	return s.listing, nil
}

func (s *stubMarketService) InitiatePayment(context.Context, core.InitiatePaymentRequest) (core.PaymentInstructions, error) {
	return core.PaymentInstructions{Memo: 42}, nil
}

func (s *stubMarketService) ConfirmPayment(context.Context, core.ConfirmPaymentRequest) (core.Payment, error) {
	return s.payment, nil
}

func (s *stubMarketService) DiscardExpiredOrder(context.Context, uint64) (core.PendingOrder, bool) {
	return core.PendingOrder{}, false
}

func (s *stubMarketService) GetActiveWasteByID(context.Context, string) (core.WasteListing, error) {
	s.getWasteCalls++
	return s.listing, nil
}

func (s *stubMarketService) GetActiveWastesByCategory(context.Context, string) ([]core.WasteListing, error) {
	return []core.WasteListing{s.listing}, nil
}

func (s *stubMarketService) GetActiveWastes(context.Context) ([]core.WasteListing, error) {
	return []core.WasteListing{s.listing}, nil
}

func (s *stubMarketService) GetInactiveWastes(context.Context) ([]core.WasteListing, error) {
	return nil, nil
}

func (s *stubMarketService) GetPayment(context.Context, string) (core.Payment, error) {
	return s.payment, nil
}
