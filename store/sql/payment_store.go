package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-waste-market/core"
	"github.com/uptrace/bun"
)

type PaymentStore struct {
	db   *bun.DB
	repo repository.Repository[*paymentRecord]
}

func (s *PaymentStore) Get(ctx context.Context, id string) (core.Payment, error) {
	if s == nil || s.repo == nil {
		return core.Payment{}, fmt.Errorf("sqlstore: payment store is not configured")
	}
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return core.Payment{}, fmt.Errorf("sqlstore: payment id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", trimmedID),
	)
	if err != nil {
		return core.Payment{}, mapRecordError(err, "payment %s", trimmedID)
	}
	if len(records) == 0 {
		return core.Payment{}, fmt.Errorf("%w: payment %s", core.ErrRecordNotFound, trimmedID)
	}
	return records[0].toDomain(), nil
}

func (s *PaymentStore) Create(ctx context.Context, payment core.Payment) (core.Payment, error) {
	if s == nil || s.repo == nil {
		return core.Payment{}, fmt.Errorf("sqlstore: payment store is not configured")
	}
	if strings.TrimSpace(payment.ID) == "" {
		return core.Payment{}, fmt.Errorf("sqlstore: payment id is required")
	}
	if strings.TrimSpace(payment.ListingID) == "" {
		return core.Payment{}, fmt.Errorf("sqlstore: payment listing id is required")
	}
	created, err := s.repo.Create(ctx, newPaymentRecord(payment, time.Now().UTC()))
	if err != nil {
		return core.Payment{}, err
	}
	return created.toDomain(), nil
}

func (s *PaymentStore) ListByListing(ctx context.Context, listingID string) ([]core.Payment, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: payment store is not configured")
	}
	trimmedID := strings.TrimSpace(listingID)
	if trimmedID == "" {
		return nil, fmt.Errorf("sqlstore: listing id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("listing_id", "=", trimmedID),
		repository.OrderBy("paid_at ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.Payment, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
