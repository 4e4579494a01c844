package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
)

// CachedFacilityAdapter wraps a FacilityRepository with read-through caching.
// Identity lookups and aggregate recomputes always hit the store: the dedup
// pre-check must not act on a stale copy, and the bulk recompute path touches
// rows the cache cannot enumerate cheaply.
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	facilityByIDTTL   = 300 // 5 minutes for single facility
	facilitiesListTTL = 180 // 3 minutes for lists
)

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

func facilitiesListCacheKey(filter repositories.FacilityFilter) string {
	return fmt.Sprintf("facilities:list:%s:%s:%d:%d", filter.SportType, filter.District, filter.Limit, filter.Offset)
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	cacheKey := facilityCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			return &facility, nil
		}
		log.Warn().Str("facility_id", id).Msg("failed to unmarshal cached facility")
	}

	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facility); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilityByIDTTL); err != nil {
				log.Warn().Err(err).Str("facility_id", id).Msg("failed to cache facility")
			}
		}
	}()

	return facility, nil
}

// FindByIdentity always consults the underlying store
func (a *CachedFacilityAdapter) FindByIdentity(ctx context.Context, name string, latitude, longitude float64) (*entities.Facility, error) {
	return a.adapter.FindByIdentity(ctx, name, latitude, longitude)
}

// List retrieves facilities with caching
func (a *CachedFacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	cacheKey := facilitiesListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			return facilities, nil
		}
		log.Warn().Msg("failed to unmarshal cached facilities list")
	}

	facilities, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilitiesListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache facilities list")
			}
		}
	}()

	return facilities, nil
}

// Create persists a facility and invalidates list caches
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate facilities list cache")
		}
	}()

	return nil
}

// UpdateRatingAggregate writes the cached rating pair and invalidates the
// facility's cache entry
func (a *CachedFacilityAdapter) UpdateRatingAggregate(ctx context.Context, id string, rating *float64, reviewCount int) error {
	if err := a.adapter.UpdateRatingAggregate(ctx, id, rating, reviewCount); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, facilityCacheKey(id)); err != nil {
			log.Warn().Err(err).Str("facility_id", id).Msg("failed to invalidate facility cache")
		}
		if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate facilities list cache")
		}
	}()

	return nil
}

// BulkRecomputeAggregates recomputes aggregates and flushes facility caches
func (a *CachedFacilityAdapter) BulkRecomputeAggregates(ctx context.Context) (int64, error) {
	updated, err := a.adapter.BulkRecomputeAggregates(ctx)
	if err != nil {
		return updated, err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, "facility:*"); err != nil {
			log.Warn().Err(err).Msg("failed to flush facility caches after bulk recompute")
		}
		if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate facilities list cache")
		}
	}()

	return updated, nil
}

// ListIDsWithReviews always consults the underlying store
func (a *CachedFacilityAdapter) ListIDsWithReviews(ctx context.Context) ([]string, error) {
	return a.adapter.ListIDsWithReviews(ctx)
}
