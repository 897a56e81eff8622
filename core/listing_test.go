package core

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func requireTextCode(t *testing.T, err error, textCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", textCode)
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected go-errors type, got %T: %v", err, err)
	}
	if richErr.TextCode != textCode {
		t.Fatalf("expected text code %q, got %q (%v)", textCode, richErr.TextCode, err)
	}
}

func TestCreateWaste_SetsAuthorAndStatus(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	listing, err := svc.CreateWaste(context.Background(), CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles, baled",
		Weight:      10,
		Status:      WasteStatusUnverified,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}
	if listing.Author != "sender-1" {
		t.Fatalf("expected author sender-1, got %q", listing.Author)
	}
	if listing.Status != WasteStatusUnverified {
		t.Fatalf("expected unverified status, got %q", listing.Status)
	}
	if listing.ID == "" {
		t.Fatalf("expected listing id to be assigned")
	}
	if !listing.CreatedAt.Equal(fixture.now) || !listing.UpdatedAt.Equal(fixture.now) {
		t.Fatalf("expected timestamps from the injected clock")
	}
}

func TestCreateWaste_UnregisteredCallerUnauthorized(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateWaste(context.Background(), CreateWasteRequest{
		Caller:      "ghost",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      5,
	})
	requireTextCode(t, err, MarketErrorUnauthorized)
}

func TestCreateWaste_InactiveUserRejected(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, false)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateWaste(context.Background(), CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      5,
	})
	requireTextCode(t, err, MarketErrorInactiveUser)
}

func TestCreateWaste_UnknownCategoryBadRequest(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateWaste(context.Background(), CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "no-such-category",
		Description: "PET bottles",
		Weight:      5,
	})
	requireTextCode(t, err, MarketErrorBadRequest)
}

func TestUpdateWaste_MissingListingNotFound(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	description := "updated"
	_, err = svc.UpdateWaste(context.Background(), UpdateWasteRequest{
		Caller:    "sender-1",
		ListingID: "missing",
		Payload:   UpdateWastePayload{Description: &description},
	})
	requireTextCode(t, err, MarketErrorNotFound)
}

func TestUpdateWaste_SenderNotAuthorForbidden(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addUser("sender-2", RoleSender, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	description := "hijacked"
	_, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "sender-2",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Description: &description},
	})
	requireTextCode(t, err, MarketErrorForbidden)

	stored, getErr := fixture.listings.Get(ctx, listing.ID)
	if getErr != nil {
		t.Fatalf("get listing: %v", getErr)
	}
	if stored.Description != "PET bottles" {
		t.Fatalf("expected listing unchanged, got description %q", stored.Description)
	}
}

func TestUpdateWaste_AuthorEditsWhileUnverified(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addCategory("plastics")
	fixture.addCategory("metals")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	description := "aluminium cans"
	category := "metals"
	weight := int64(25)
	updated, err := svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "sender-1",
		ListingID: listing.ID,
		Payload: UpdateWastePayload{
			Description: &description,
			CategoryID:  &category,
			Weight:      &weight,
		},
	})
	if err != nil {
		t.Fatalf("update waste: %v", err)
	}
	if updated.Description != "aluminium cans" || updated.CategoryID != "metals" || updated.Weight != 25 {
		t.Fatalf("unexpected listing after update: %+v", updated)
	}
}

func TestUpdateWaste_ReceiverVerifiesExactlyOnce(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addUser("receiver-1", RoleReceiver, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	verified := WasteStatusVerified
	updated, err := svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &verified},
	})
	if err != nil {
		t.Fatalf("verify listing: %v", err)
	}
	if updated.Status != WasteStatusVerified {
		t.Fatalf("expected verified status, got %q", updated.Status)
	}

	_, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &verified},
	})
	requireTextCode(t, err, MarketErrorInvalidWasteStatus)
}

func TestUpdateWaste_VerifiedNeverRevertsToUnverified(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addUser("receiver-1", RoleReceiver, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	verified := WasteStatusVerified
	if _, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &verified},
	}); err != nil {
		t.Fatalf("verify listing: %v", err)
	}

	unverified := WasteStatusUnverified
	_, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &unverified},
	})
	requireTextCode(t, err, MarketErrorInvalidWasteStatus)
}

func TestUpdateWaste_ReceiverCannotEditOwnListing(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("receiver-1", RoleReceiver, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "receiver-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	verified := WasteStatusVerified
	_, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &verified},
	})
	requireTextCode(t, err, MarketErrorUnauthorizedWasteEdit)
}

func TestUpdateWaste_VerifiedListingLockedForAuthor(t *testing.T) {
	fixture := newMarketFixture()
	fixture.addUser("sender-1", RoleSender, true)
	fixture.addUser("receiver-1", RoleReceiver, true)
	fixture.addCategory("plastics")

	svc, err := fixture.service()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	listing, err := svc.CreateWaste(ctx, CreateWasteRequest{
		Caller:      "sender-1",
		CategoryID:  "plastics",
		Description: "PET bottles",
		Weight:      10,
	})
	if err != nil {
		t.Fatalf("create waste: %v", err)
	}

	verified := WasteStatusVerified
	if _, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "receiver-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Status: &verified},
	}); err != nil {
		t.Fatalf("verify listing: %v", err)
	}

	description := "late edit"
	_, err = svc.UpdateWaste(ctx, UpdateWasteRequest{
		Caller:    "sender-1",
		ListingID: listing.ID,
		Payload:   UpdateWastePayload{Description: &description},
	})
	requireTextCode(t, err, MarketErrorUnauthorizedWasteEdit)
}
