package core

import (
	"context"
	"fmt"
	"strings"
)

// Active listings are the receiver-verified ones visible to buyers; inactive
// listings are the ones still awaiting verification.

func (s *Service) GetActiveWasteByID(ctx context.Context, listingID string) (listing WasteListing, err error) {
	defer s.recoverOperation("waste.get_active", &err)

	if strings.TrimSpace(listingID) == "" {
		return WasteListing{}, s.mapError(fmt.Errorf("core: listing id is required"))
	}
	if s.listingStore == nil {
		return WasteListing{}, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}
	listing, err = s.listingStore.Get(ctx, strings.TrimSpace(listingID))
	if err != nil {
		return WasteListing{}, s.mapError(err)
	}
	if !listing.Verified() {
		return WasteListing{}, s.mapError(fmt.Errorf("%w: active listing %q", ErrRecordNotFound, listingID))
	}
	return listing, nil
}

func (s *Service) GetActiveWastesByCategory(ctx context.Context, categoryID string) (listings []WasteListing, err error) {
	defer s.recoverOperation("waste.list_active_by_category", &err)

	if strings.TrimSpace(categoryID) == "" {
		return nil, s.mapError(fmt.Errorf("core: category id is required"))
	}
	if s.listingStore == nil {
		return nil, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}
	filter := FilterByStatus(WasteStatusVerified)
	filter.CategoryID = strings.TrimSpace(categoryID)
	listings, err = s.listingStore.List(ctx, filter)
	if err != nil {
		return nil, s.mapError(err)
	}
	return listings, nil
}

func (s *Service) GetActiveWastes(ctx context.Context) (listings []WasteListing, err error) {
	defer s.recoverOperation("waste.list_active", &err)

	if s.listingStore == nil {
		return nil, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}
	listings, err = s.listingStore.List(ctx, FilterByStatus(WasteStatusVerified))
	if err != nil {
		return nil, s.mapError(err)
	}
	return listings, nil
}

func (s *Service) GetInactiveWastes(ctx context.Context) (listings []WasteListing, err error) {
	defer s.recoverOperation("waste.list_inactive", &err)

	if s.listingStore == nil {
		return nil, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}
	listings, err = s.listingStore.List(ctx, FilterByStatus(WasteStatusUnverified))
	if err != nil {
		return nil, s.mapError(err)
	}
	return listings, nil
}

func (s *Service) GetPayment(ctx context.Context, paymentID string) (payment Payment, err error) {
	defer s.recoverOperation("payment.get", &err)

	if strings.TrimSpace(paymentID) == "" {
		return Payment{}, s.mapError(fmt.Errorf("core: payment id is required"))
	}
	if s.paymentStore == nil {
		return Payment{}, s.mapError(fmt.Errorf("core: payment store is not configured"))
	}
	payment, err = s.paymentStore.Get(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		return Payment{}, s.mapError(err)
	}
	return payment, nil
}
