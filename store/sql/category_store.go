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

type CategoryStore struct {
	db   *bun.DB
	repo repository.Repository[*categoryRecord]
}

func (s *CategoryStore) Get(ctx context.Context, id string) (core.Category, error) {
	if s == nil || s.repo == nil {
		return core.Category{}, fmt.Errorf("sqlstore: category store is not configured")
	}
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return core.Category{}, fmt.Errorf("sqlstore: category id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", trimmedID),
	)
	if err != nil {
		return core.Category{}, mapRecordError(err, "category %s", trimmedID)
	}
	if len(records) == 0 {
		return core.Category{}, fmt.Errorf("%w: category %s", core.ErrRecordNotFound, trimmedID)
	}
	return records[0].toDomain(), nil
}

func (s *CategoryStore) List(ctx context.Context) ([]core.Category, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: category store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (s *CategoryStore) Save(ctx context.Context, category core.Category) (core.Category, error) {
	if s == nil || s.repo == nil {
		return core.Category{}, fmt.Errorf("sqlstore: category store is not configured")
	}
	if strings.TrimSpace(category.ID) == "" {
		return core.Category{}, fmt.Errorf("sqlstore: category id is required")
	}

	now := time.Now().UTC()
	record := newCategoryRecord(category, now)

	existing, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(category.ID)),
	)
	if err != nil {
		return core.Category{}, err
	}
	if len(existing) == 0 {
		created, createErr := s.repo.Create(ctx, record)
		if createErr != nil {
			return core.Category{}, createErr
		}
		return created.toDomain(), nil
	}

	record.CreatedAt = existing[0].CreatedAt
	updated, updateErr := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	if updateErr != nil {
		return core.Category{}, updateErr
	}
	return updated.toDomain(), nil
}
