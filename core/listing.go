package core

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type CreateWasteRequest struct {
	Caller      Identity
	CategoryID  string
	Description string
	Weight      int64
	Status      WasteStatus
}

func (r CreateWasteRequest) Validate() error {
	if err := r.Caller.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return fmt.Errorf("core: category id is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("core: description is required")
	}
	if r.Weight <= 0 {
		return fmt.Errorf("core: weight must be positive")
	}
	if r.Status != "" {
		return r.Status.Validate()
	}
	return nil
}

type UpdateWastePayload struct {
	CategoryID  *string
	Description *string
	Weight      *int64
	Status      *WasteStatus
}

func (p UpdateWastePayload) Empty() bool {
	return p.CategoryID == nil && p.Description == nil && p.Weight == nil && p.Status == nil
}

func (p UpdateWastePayload) editsDescriptiveFields() bool {
	return p.CategoryID != nil || p.Description != nil || p.Weight != nil
}

type UpdateWasteRequest struct {
	Caller    Identity
	ListingID string
	Payload   UpdateWastePayload
}

// CreateWaste registers a new listing authored by the caller. The caller must
// hold an active account; the author reference is set once here and is never
// reassigned afterwards.
func (s *Service) CreateWaste(ctx context.Context, req CreateWasteRequest) (listing WasteListing, err error) {
	startedAt := s.now()
	defer s.recoverOperation("waste.create", &err)
	defer func() {
		s.observeOperation(ctx, startedAt, "waste.create", err, map[string]any{
			"caller":      req.Caller.String(),
			"category_id": req.CategoryID,
		})
	}()

	if err = req.Validate(); err != nil {
		return WasteListing{}, s.mapError(err)
	}
	if _, err = s.resolveActor(ctx, req.Caller); err != nil {
		return WasteListing{}, s.mapError(err)
	}
	if s.listingStore == nil {
		return WasteListing{}, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}
	if err = s.checkCategory(ctx, req.CategoryID); err != nil {
		return WasteListing{}, s.mapError(err)
	}

	status := req.Status
	if status == "" {
		status = WasteStatusUnverified
	}

	now := s.now()
	listing = WasteListing{
		ID:          uuid.NewString(),
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Description: strings.TrimSpace(req.Description),
		Weight:      req.Weight,
		Status:      status,
		Author:      req.Caller,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	listing, err = s.listingStore.Create(ctx, listing)
	if err != nil {
		return WasteListing{}, s.mapError(err)
	}
	return listing, nil
}

// UpdateWaste applies the role-gated edit rules: the authoring sender may
// change descriptive fields and status while the listing is unverified; a
// receiver who is not the author may edit descriptive fields and flip the
// status to verified, exactly once. Every other combination is rejected.
func (s *Service) UpdateWaste(ctx context.Context, req UpdateWasteRequest) (listing WasteListing, err error) {
	startedAt := s.now()
	defer s.recoverOperation("waste.update", &err)
	defer func() {
		s.observeOperation(ctx, startedAt, "waste.update", err, map[string]any{
			"caller":     req.Caller.String(),
			"listing_id": req.ListingID,
		})
	}()

	if strings.TrimSpace(req.ListingID) == "" {
		return WasteListing{}, s.mapError(fmt.Errorf("core: listing id is required"))
	}
	if req.Payload.Empty() {
		return WasteListing{}, s.mapError(fmt.Errorf("core: update payload is required"))
	}

	actor, err := s.resolveActor(ctx, req.Caller)
	if err != nil {
		return WasteListing{}, s.mapError(err)
	}
	if s.listingStore == nil {
		return WasteListing{}, s.mapError(fmt.Errorf("core: listing store is not configured"))
	}

	listing, err = s.listingStore.Get(ctx, strings.TrimSpace(req.ListingID))
	if err != nil {
		if isNotFound(err) {
			return WasteListing{}, s.mapError(fmt.Errorf("%w: listing %q", ErrRecordNotFound, req.ListingID))
		}
		return WasteListing{}, s.mapError(err)
	}

	if err = authorizeWasteEdit(actor, listing, req.Payload); err != nil {
		return WasteListing{}, s.mapError(err)
	}

	now := s.now()
	if req.Payload.CategoryID != nil {
		categoryID := strings.TrimSpace(*req.Payload.CategoryID)
		if err = s.checkCategory(ctx, categoryID); err != nil {
			return WasteListing{}, s.mapError(err)
		}
		listing.CategoryID = categoryID
	}
	if req.Payload.Description != nil {
		listing.Description = strings.TrimSpace(*req.Payload.Description)
	}
	if req.Payload.Weight != nil {
		if *req.Payload.Weight <= 0 {
			return WasteListing{}, s.mapError(fmt.Errorf("core: weight must be positive"))
		}
		listing.Weight = *req.Payload.Weight
	}
	if req.Payload.Status != nil {
		if err = listing.TransitionTo(*req.Payload.Status, now); err != nil {
			return WasteListing{}, s.mapError(err)
		}
	}
	listing.UpdatedAt = now

	listing, err = s.listingStore.Update(ctx, listing)
	if err != nil {
		return WasteListing{}, s.mapError(err)
	}
	return listing, nil
}

// authorizeWasteEdit enforces the role matrix for update. The author identity
// is structurally immutable: no payload field can reassign it.
func authorizeWasteEdit(actor User, listing WasteListing, payload UpdateWastePayload) error {
	switch actor.Role {
	case RoleSender:
		if actor.Identity != listing.Author {
			return goerrors.New(
				fmt.Sprintf("core: sender %q is not permitted to edit a listing authored by %q", actor.Identity, listing.Author),
				goerrors.CategoryAuthz,
			).WithTextCode(MarketErrorForbidden)
		}
		if listing.Verified() && payload.editsDescriptiveFields() {
			return goerrors.New(
				"core: a verified listing can no longer be edited by its author",
				goerrors.CategoryAuthz,
			).WithTextCode(MarketErrorUnauthorizedWasteEdit)
		}
		return nil
	case RoleReceiver:
		if actor.Identity == listing.Author {
			return goerrors.New(
				"core: a receiver is not permitted to edit its own listing",
				goerrors.CategoryAuthz,
			).WithTextCode(MarketErrorUnauthorizedWasteEdit)
		}
		if payload.Status != nil && *payload.Status != WasteStatusVerified {
			return goerrors.New(
				fmt.Sprintf("core: a receiver may only flip status to %s", WasteStatusVerified),
				goerrors.CategoryConflict,
			).WithTextCode(MarketErrorInvalidWasteStatus)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, actor.Role)
	}
}

func (s *Service) checkCategory(ctx context.Context, categoryID string) error {
	if s.categoryStore == nil {
		return nil
	}
	_, err := s.categoryStore.Get(ctx, strings.TrimSpace(categoryID))
	if err != nil {
		if isNotFound(err) {
			return goerrors.New(
				fmt.Sprintf("core: invalid category %q", categoryID),
				goerrors.CategoryBadInput,
			).WithTextCode(MarketErrorBadRequest)
		}
		return err
	}
	return nil
}
