package command

import (
	"strings"

	"github.com/goliatone/go-waste-market/core"
)

const (
	TypeCreateWaste     = "market.command.waste.create"
	TypeUpdateWaste     = "market.command.waste.update"
	TypeInitiatePayment = "market.command.payment.initiate"
	TypeConfirmPayment  = "market.command.payment.confirm"
	TypeDiscardOrder    = "market.command.order.discard"
)

type CreateWasteMessage struct {
	Request core.CreateWasteRequest
}

func (CreateWasteMessage) Type() string { return TypeCreateWaste }

func (m CreateWasteMessage) Validate() error {
	if err := m.Request.Caller.Validate(); err != nil {
		return commandValidationError("caller", "caller identity is required")
	}
	if strings.TrimSpace(m.Request.CategoryID) == "" {
		return commandValidationError("category_id", "category id is required")
	}
	if strings.TrimSpace(m.Request.Description) == "" {
		return commandValidationError("description", "description is required")
	}
	if m.Request.Weight <= 0 {
		return commandValidationError("weight", "weight must be positive")
	}
	return nil
}

type UpdateWasteMessage struct {
	Request core.UpdateWasteRequest
}

func (UpdateWasteMessage) Type() string { return TypeUpdateWaste }

func (m UpdateWasteMessage) Validate() error {
	if err := m.Request.Caller.Validate(); err != nil {
		return commandValidationError("caller", "caller identity is required")
	}
	if strings.TrimSpace(m.Request.ListingID) == "" {
		return commandValidationError("listing_id", "listing id is required")
	}
	if m.Request.Payload.Empty() {
		return commandInvalidInputError("command: update payload is required")
	}
	return nil
}

type InitiatePaymentMessage struct {
	Request core.InitiatePaymentRequest
}

func (InitiatePaymentMessage) Type() string { return TypeInitiatePayment }

func (m InitiatePaymentMessage) Validate() error {
	if err := m.Request.Caller.Validate(); err != nil {
		return commandValidationError("caller", "caller identity is required")
	}
	if strings.TrimSpace(m.Request.ListingID) == "" {
		return commandValidationError("listing_id", "listing id is required")
	}
	if m.Request.Amount <= 0 {
		return commandValidationError("amount", "amount must be positive")
	}
	return nil
}

type ConfirmPaymentMessage struct {
	Request core.ConfirmPaymentRequest
}

func (ConfirmPaymentMessage) Type() string { return TypeConfirmPayment }

func (m ConfirmPaymentMessage) Validate() error {
	if m.Request.Memo == 0 {
		return commandValidationError("memo", "memo is required")
	}
	return nil
}

type DiscardOrderMessage struct {
	Memo uint64
}

func (DiscardOrderMessage) Type() string { return TypeDiscardOrder }

func (m DiscardOrderMessage) Validate() error {
	if m.Memo == 0 {
		return commandValidationError("memo", "memo is required")
	}
	return nil
}
