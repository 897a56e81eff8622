package sqlstore

import (
	"context"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-waste-market/core"
	"github.com/uptrace/bun"
)

type ListingStore struct {
	db   *bun.DB
	repo repository.Repository[*wasteListingRecord]
}

func (s *ListingStore) Get(ctx context.Context, id string) (core.WasteListing, error) {
	if s == nil || s.repo == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing store is not configured")
	}
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", trimmedID),
	)
	if err != nil {
		return core.WasteListing{}, mapRecordError(err, "listing %s", trimmedID)
	}
	if len(records) == 0 {
		return core.WasteListing{}, fmt.Errorf("%w: listing %s", core.ErrRecordNotFound, trimmedID)
	}
	return records[0].toDomain(), nil
}

func (s *ListingStore) Create(ctx context.Context, listing core.WasteListing) (core.WasteListing, error) {
	if s == nil || s.repo == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing store is not configured")
	}
	if strings.TrimSpace(listing.ID) == "" {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing id is required")
	}
	if err := listing.Status.Validate(); err != nil {
		return core.WasteListing{}, err
	}
	created, err := s.repo.Create(ctx, newWasteListingRecord(listing))
	if err != nil {
		return core.WasteListing{}, err
	}
	return created.toDomain(), nil
}

func (s *ListingStore) Update(ctx context.Context, listing core.WasteListing) (core.WasteListing, error) {
	if s == nil || s.repo == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing store is not configured")
	}
	trimmedID := strings.TrimSpace(listing.ID)
	if trimmedID == "" {
		return core.WasteListing{}, fmt.Errorf("sqlstore: listing id is required")
	}
	if err := listing.Status.Validate(); err != nil {
		return core.WasteListing{}, err
	}
	if _, err := s.Get(ctx, trimmedID); err != nil {
		return core.WasteListing{}, err
	}
	updated, err := s.repo.Update(ctx, newWasteListingRecord(listing), repository.UpdateByID(trimmedID))
	if err != nil {
		return core.WasteListing{}, err
	}
	return updated.toDomain(), nil
}

func (s *ListingStore) List(ctx context.Context, filter core.ListingFilter) ([]core.WasteListing, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: listing store is not configured")
	}

	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at ASC"),
	}
	if filter.Status != nil {
		selectors = append(selectors, repository.SelectBy("status", "=", string(*filter.Status)))
	}
	if strings.TrimSpace(filter.CategoryID) != "" {
		selectors = append(selectors, repository.SelectBy("category_id", "=", strings.TrimSpace(filter.CategoryID)))
	}
	if strings.TrimSpace(filter.Author.String()) != "" {
		selectors = append(selectors, repository.SelectBy("author", "=", strings.TrimSpace(filter.Author.String())))
	}

	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	out := make([]core.WasteListing, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
