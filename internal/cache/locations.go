package cache

import (
	"context"
	"encoding/json"
	"time"

	"absensi-guard/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	validLocationsKey = "valid_locations_active"
	validLocationsTTL = 60 * time.Second
)

// SetValidLocations caches the active valid locations with a TTL.
func (r *Redis) SetValidLocations(ctx context.Context, locations []models.ValidLocation) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, validLocationsKey, data, validLocationsTTL).Err()
}

// GetValidLocations returns the cached locations, or nil when the cache is
// empty.
func (r *Redis) GetValidLocations(ctx context.Context) ([]models.ValidLocation, error) {
	val, err := r.Client.Get(ctx, validLocationsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var locations []models.ValidLocation
	if err := json.Unmarshal([]byte(val), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}
