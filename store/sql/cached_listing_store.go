package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-waste-market/core"
)

const listingCacheKeyPrefix = "go-waste-market::listing::v1"

// CachedListingStore serves single-listing reads through a cache and
// invalidates on every write. List reads always hit the base store since the
// filter space is unbounded.
type CachedListingStore struct {
	base  core.ListingStore
	cache repositorycache.CacheService
}

func NewCachedListingStore(
	base core.ListingStore,
	cacheService repositorycache.CacheService,
) (*CachedListingStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base listing store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: listing cache service is required")
	}
	return &CachedListingStore{base: base, cache: cacheService}, nil
}

// ListingCacheKey returns the deterministic cache key contract for listing
// reads: go-waste-market::listing::v1::<listing_id> with the id URL-path
// escaped.
func ListingCacheKey(listingID string) (string, error) {
	trimmed := strings.TrimSpace(listingID)
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: listing id is required")
	}
	return listingCacheKeyPrefix + "::" + url.PathEscape(trimmed), nil
}

func (s *CachedListingStore) Get(ctx context.Context, id string) (core.WasteListing, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: cached listing store is not configured")
	}
	cacheKey, err := ListingCacheKey(id)
	if err != nil {
		return core.WasteListing{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.WasteListing, error) {
		return s.base.Get(ctx, strings.TrimSpace(id))
	})
}

func (s *CachedListingStore) Create(ctx context.Context, listing core.WasteListing) (core.WasteListing, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: cached listing store is not configured")
	}
	created, err := s.base.Create(ctx, listing)
	if err != nil {
		return core.WasteListing{}, err
	}
	if err := s.invalidate(ctx, created.ID); err != nil {
		return core.WasteListing{}, err
	}
	return created, nil
}

func (s *CachedListingStore) Update(ctx context.Context, listing core.WasteListing) (core.WasteListing, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WasteListing{}, fmt.Errorf("sqlstore: cached listing store is not configured")
	}
	updated, err := s.base.Update(ctx, listing)
	if err != nil {
		return core.WasteListing{}, err
	}
	if err := s.invalidate(ctx, updated.ID); err != nil {
		return core.WasteListing{}, err
	}
	return updated, nil
}

func (s *CachedListingStore) List(ctx context.Context, filter core.ListingFilter) ([]core.WasteListing, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached listing store is not configured")
	}
	return s.base.List(ctx, filter)
}

func (s *CachedListingStore) invalidate(ctx context.Context, listingID string) error {
	cacheKey, err := ListingCacheKey(listingID)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.ListingStore = (*CachedListingStore)(nil)
