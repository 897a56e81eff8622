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

type UserStore struct {
	db   *bun.DB
	repo repository.Repository[*userRecord]
}

func (s *UserStore) Get(ctx context.Context, identity core.Identity) (core.User, error) {
	if s == nil || s.repo == nil {
		return core.User{}, fmt.Errorf("sqlstore: user store is not configured")
	}
	if err := identity.Validate(); err != nil {
		return core.User{}, err
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(identity.String())),
	)
	if err != nil {
		return core.User{}, mapRecordError(err, "user %s", identity)
	}
	if len(records) == 0 {
		return core.User{}, fmt.Errorf("%w: user %s", core.ErrRecordNotFound, identity)
	}
	return records[0].toDomain(), nil
}

func (s *UserStore) Save(ctx context.Context, user core.User) (core.User, error) {
	if s == nil || s.repo == nil {
		return core.User{}, fmt.Errorf("sqlstore: user store is not configured")
	}
	if err := user.Identity.Validate(); err != nil {
		return core.User{}, err
	}
	if _, err := core.ParseRole(string(user.Role)); err != nil {
		return core.User{}, err
	}

	now := time.Now().UTC()
	record := newUserRecord(user, now)

	existing, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(user.Identity.String())),
	)
	if err != nil {
		return core.User{}, err
	}
	if len(existing) == 0 {
		created, createErr := s.repo.Create(ctx, record)
		if createErr != nil {
			return core.User{}, createErr
		}
		return created.toDomain(), nil
	}

	record.CreatedAt = existing[0].CreatedAt
	updated, updateErr := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	if updateErr != nil {
		return core.User{}, updateErr
	}
	return updated.toDomain(), nil
}
