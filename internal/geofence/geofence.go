// Package geofence checks attendance positions against the configured
// valid locations.
package geofence

import (
	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/models"
)

// Result reports geofence membership. Distance is only meaningful when
// Matched is set.
type Result struct {
	IsValid  bool
	Matched  *models.ValidLocation
	Distance float64 // meters to the matched location's center
}

// Check returns the first active location whose radius contains the given
// position. First match wins; no closest-match tie-break is applied. A miss
// carries no nearest-location info — callers use NearestDistance for user
// messaging.
func Check(lat, lng float64, locations []models.ValidLocation) Result {
	for _, loc := range locations {
		if !loc.Active {
			continue
		}
		distance := antifraud.Haversine(lat, lng, loc.Latitude, loc.Longitude)
		if distance <= loc.RadiusMeter {
			matched := loc
			return Result{IsValid: true, Matched: &matched, Distance: distance}
		}
	}
	return Result{}
}

// NearestDistance returns the closest active location and its distance in
// meters, for explaining a geofence miss to the user. ok is false when no
// active locations are configured.
func NearestDistance(lat, lng float64, locations []models.ValidLocation) (models.ValidLocation, float64, bool) {
	var nearest models.ValidLocation
	var best float64
	found := false

	for _, loc := range locations {
		if !loc.Active {
			continue
		}
		distance := antifraud.Haversine(lat, lng, loc.Latitude, loc.Longitude)
		if !found || distance < best {
			nearest = loc
			best = distance
			found = true
		}
	}
	return nearest, best, found
}
