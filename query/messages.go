package query

import (
	"strings"
)

const (
	TypeGetActiveWaste       = "market.query.waste.get_active"
	TypeListActiveByCategory = "market.query.waste.list_active_by_category"
	TypeListActiveWastes     = "market.query.waste.list_active"
	TypeListInactiveWastes   = "market.query.waste.list_inactive"
	TypeGetPayment           = "market.query.payment.get"
)

type GetActiveWasteMessage struct {
	ListingID string
}

func (GetActiveWasteMessage) Type() string { return TypeGetActiveWaste }

func (m GetActiveWasteMessage) Validate() error {
	if strings.TrimSpace(m.ListingID) == "" {
		return queryValidationError("listing_id", "listing id is required")
	}
	return nil
}

type ListActiveByCategoryMessage struct {
	CategoryID string
}

func (ListActiveByCategoryMessage) Type() string { return TypeListActiveByCategory }

func (m ListActiveByCategoryMessage) Validate() error {
	if strings.TrimSpace(m.CategoryID) == "" {
		return queryValidationError("category_id", "category id is required")
	}
	return nil
}

type ListActiveWastesMessage struct{}

func (ListActiveWastesMessage) Type() string { return TypeListActiveWastes }

func (ListActiveWastesMessage) Validate() error { return nil }

type ListInactiveWastesMessage struct{}

func (ListInactiveWastesMessage) Type() string { return TypeListInactiveWastes }

func (ListInactiveWastesMessage) Validate() error { return nil }

type GetPaymentMessage struct {
	PaymentID string
}

func (GetPaymentMessage) Type() string { return TypeGetPayment }

func (m GetPaymentMessage) Validate() error {
	if strings.TrimSpace(m.PaymentID) == "" {
		return queryValidationError("payment_id", "payment id is required")
	}
	return nil
}
