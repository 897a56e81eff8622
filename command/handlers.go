package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-waste-market/core"
)

type MutatingService interface {
	CreateWaste(ctx context.Context, req core.CreateWasteRequest) (core.WasteListing, error)
	UpdateWaste(ctx context.Context, req core.UpdateWasteRequest) (core.WasteListing, error)
	InitiatePayment(ctx context.Context, req core.InitiatePaymentRequest) (core.PaymentInstructions, error)
	ConfirmPayment(ctx context.Context, req core.ConfirmPaymentRequest) (core.Payment, error)
	DiscardExpiredOrder(ctx context.Context, memo uint64) (core.PendingOrder, bool)
}

type CreateWasteCommand struct {
	service MutatingService
}

func NewCreateWasteCommand(service MutatingService) *CreateWasteCommand {
	return &CreateWasteCommand{service: service}
}

func (c *CreateWasteCommand) Execute(ctx context.Context, msg CreateWasteMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: create waste service is required")
	}
	out, err := c.service.CreateWaste(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateWasteCommand struct {
	service MutatingService
}

func NewUpdateWasteCommand(service MutatingService) *UpdateWasteCommand {
	return &UpdateWasteCommand{service: service}
}

func (c *UpdateWasteCommand) Execute(ctx context.Context, msg UpdateWasteMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: update waste service is required")
	}
	out, err := c.service.UpdateWaste(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type InitiatePaymentCommand struct {
	service MutatingService
}

func NewInitiatePaymentCommand(service MutatingService) *InitiatePaymentCommand {
	return &InitiatePaymentCommand{service: service}
}

func (c *InitiatePaymentCommand) Execute(ctx context.Context, msg InitiatePaymentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: initiate payment service is required")
	}
	out, err := c.service.InitiatePayment(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ConfirmPaymentCommand struct {
	service MutatingService
}

func NewConfirmPaymentCommand(service MutatingService) *ConfirmPaymentCommand {
	return &ConfirmPaymentCommand{service: service}
}

func (c *ConfirmPaymentCommand) Execute(ctx context.Context, msg ConfirmPaymentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: confirm payment service is required")
	}
	out, err := c.service.ConfirmPayment(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DiscardOrderCommand struct {
	service MutatingService
}

func NewDiscardOrderCommand(service MutatingService) *DiscardOrderCommand {
	return &DiscardOrderCommand{service: service}
}

func (c *DiscardOrderCommand) Execute(ctx context.Context, msg DiscardOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: discard order service is required")
	}
	order, discarded := c.service.DiscardExpiredOrder(ctx, msg.Memo)
	if discarded {
		storeResult(ctx, order)
	}
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
