package sqlstore

import (
	"time"

	"github.com/goliatone/go-waste-market/core"
)

func newOwnerRecord(owner core.Owner, now time.Time) *ownerRecord {
	createdAt := owner.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &ownerRecord{
		ID:        owner.Identity.String(),
		Name:      owner.Name,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
}

func (r *ownerRecord) toDomain() core.Owner {
	if r == nil {
		return core.Owner{}
	}
	return core.Owner{
		Identity:  core.Identity(r.ID),
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newUserRecord(user core.User, now time.Time) *userRecord {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &userRecord{
		ID:        user.Identity.String(),
		Name:      user.Name,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
}

func (r *userRecord) toDomain() core.User {
	if r == nil {
		return core.User{}
	}
	return core.User{
		Identity:  core.Identity(r.ID),
		Name:      r.Name,
		Role:      core.Role(r.Role),
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newCategoryRecord(category core.Category, now time.Time) *categoryRecord {
	createdAt := category.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &categoryRecord{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Active:      category.Active,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
}

func (r *categoryRecord) toDomain() core.Category {
	if r == nil {
		return core.Category{}
	}
	return core.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newWasteListingRecord(listing core.WasteListing) *wasteListingRecord {
	return &wasteListingRecord{
		ID:          listing.ID,
		CategoryID:  listing.CategoryID,
		Description: listing.Description,
		Weight:      listing.Weight,
		Status:      string(listing.Status),
		Author:      listing.Author.String(),
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
}

func (r *wasteListingRecord) toDomain() core.WasteListing {
	if r == nil {
		return core.WasteListing{}
	}
	return core.WasteListing{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Weight:      r.Weight,
		Status:      core.WasteStatus(r.Status),
		Author:      core.Identity(r.Author),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newPaymentRecord(payment core.Payment, now time.Time) *paymentRecord {
	return &paymentRecord{
		ID:            payment.ID,
		ListingID:     payment.ListingID,
		Payer:         payment.Payer.String(),
		Weight:        payment.Weight,
		Amount:        payment.Amount,
		Fee:           payment.Fee,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		PaidAt:        payment.PaidAt,
		CreatedAt:     now,
	}
}

func (r *paymentRecord) toDomain() core.Payment {
	if r == nil {
		return core.Payment{}
	}
	return core.Payment{
		ID:            r.ID,
		ListingID:     r.ListingID,
		Payer:         core.Identity(r.Payer),
		Weight:        r.Weight,
		Amount:        r.Amount,
		Fee:           r.Fee,
		Method:        r.Method,
		TransactionID: r.TransactionID,
		PaidAt:        r.PaidAt,
	}
}
