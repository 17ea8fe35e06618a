package antifraud

import (
	"math"

	"absensi-guard/internal/models"
)

// VelocityConfig holds the tunable impossible-travel ceiling.
type VelocityConfig struct {
	MaxSpeedKmh float64
}

// DefaultVelocityConfig returns the ceiling for plausible human movement,
// vehicles included.
func DefaultVelocityConfig() VelocityConfig {
	return VelocityConfig{MaxSpeedKmh: 120}
}

// VelocityResult is the outcome of an impossible-travel check.
type VelocityResult struct {
	IsRealistic bool
	SpeedKmh    float64
	MaxSpeedKmh float64
}

// CheckVelocity compares two timestamped positions and flags travel that
// exceeds the configured speed ceiling. Elapsed time of zero or less cannot
// yield a speed: zero displacement is treated as realistic, anything else
// as impossible.
func CheckVelocity(prev, cur models.HistoryEntry, cfg VelocityConfig) VelocityResult {
	distance := Haversine(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	elapsed := float64(cur.Timestamp-prev.Timestamp) / 1000 // seconds

	if elapsed <= 0 {
		if distance == 0 {
			return VelocityResult{IsRealistic: true, SpeedKmh: 0, MaxSpeedKmh: cfg.MaxSpeedKmh}
		}
		return VelocityResult{IsRealistic: false, SpeedKmh: math.Inf(1), MaxSpeedKmh: cfg.MaxSpeedKmh}
	}

	speedKmh := distance / elapsed * 3.6
	return VelocityResult{
		IsRealistic: speedKmh <= cfg.MaxSpeedKmh,
		SpeedKmh:    speedKmh,
		MaxSpeedKmh: cfg.MaxSpeedKmh,
	}
}
