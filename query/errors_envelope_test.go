package query

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-waste-market/core"
)

func TestQueryMessages_ValidateReturnsRichError(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"get active waste", (GetActiveWasteMessage{}).Validate()},
		{"list active by category", (ListActiveByCategoryMessage{}).Validate()},
		{"get payment", (GetPaymentMessage{}).Validate()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Fatalf("expected validation error")
			}
			var rich *goerrors.Error
			if !goerrors.As(tc.err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T", tc.err)
			}
			if rich.Category != goerrors.CategoryValidation {
				t.Fatalf("expected validation category, got %q", rich.Category)
			}
			if rich.TextCode != core.MarketErrorBadRequest {
				t.Fatalf("expected %q text code, got %q", core.MarketErrorBadRequest, rich.TextCode)
			}
		})
	}
}

func TestListMessages_ValidateAcceptsEmpty(t *testing.T) {
	if err := (ListActiveWastesMessage{}).Validate(); err != nil {
		t.Fatalf("list active wastes validate: %v", err)
	}
	if err := (ListInactiveWastesMessage{}).Validate(); err != nil {
		t.Fatalf("list inactive wastes validate: %v", err)
	}
}
