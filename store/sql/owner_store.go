package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-waste-market/core"
	"github.com/uptrace/bun"
)

type OwnerStore struct {
	db   *bun.DB
	repo repository.Repository[*ownerRecord]
}

func (s *OwnerStore) Get(ctx context.Context, identity core.Identity) (core.Owner, error) {
	if s == nil || s.repo == nil {
		return core.Owner{}, fmt.Errorf("sqlstore: owner store is not configured")
	}
	if err := identity.Validate(); err != nil {
		return core.Owner{}, err
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(identity.String())),
	)
	if err != nil {
		return core.Owner{}, mapRecordError(err, "owner %s", identity)
	}
	if len(records) == 0 {
		return core.Owner{}, fmt.Errorf("%w: owner %s", core.ErrRecordNotFound, identity)
	}
	return records[0].toDomain(), nil
}

func (s *OwnerStore) Save(ctx context.Context, owner core.Owner) (core.Owner, error) {
	if s == nil || s.repo == nil {
		return core.Owner{}, fmt.Errorf("sqlstore: owner store is not configured")
	}
	if err := owner.Identity.Validate(); err != nil {
		return core.Owner{}, err
	}

	now := time.Now().UTC()
	record := newOwnerRecord(owner, now)

	existing, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(owner.Identity.String())),
	)
	if err != nil {
		return core.Owner{}, err
	}
	if len(existing) == 0 {
		created, createErr := s.repo.Create(ctx, record)
		if createErr != nil {
			return core.Owner{}, createErr
		}
		return created.toDomain(), nil
	}

	record.CreatedAt = existing[0].CreatedAt
	updated, updateErr := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	if updateErr != nil {
		return core.Owner{}, updateErr
	}
	return updated.toDomain(), nil
}

func mapRecordError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrRecordNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
