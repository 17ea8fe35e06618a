package services

import (
	"context"

	"absensi-guard/internal/cache"
	"absensi-guard/internal/models"
	"absensi-guard/internal/repository"
)

// LocationSource provides the configured valid locations.
type LocationSource interface {
	GetActive(ctx context.Context) ([]models.ValidLocation, error)
}

// CachedLocationSource fronts the location repository with the Redis cache:
// cache hit wins, misses fall through to the repository and refill the
// cache best-effort.
type CachedLocationSource struct {
	repo  repository.LocationRepository
	cache *cache.Redis
}

// NewCachedLocationSource creates a source. A nil cache degrades to direct
// repository reads.
func NewCachedLocationSource(repo repository.LocationRepository, redisCache *cache.Redis) *CachedLocationSource {
	return &CachedLocationSource{repo: repo, cache: redisCache}
}

func (s *CachedLocationSource) GetActive(ctx context.Context) ([]models.ValidLocation, error) {
	if s.cache != nil {
		if locations, err := s.cache.GetValidLocations(ctx); err == nil && locations != nil {
			return locations, nil
		}
	}

	locations, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetValidLocations(ctx, locations)
	}
	return locations, nil
}
