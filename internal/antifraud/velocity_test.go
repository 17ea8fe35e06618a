package antifraud

import (
	"math"
	"testing"

	"absensi-guard/internal/models"
)

func TestCheckVelocity(t *testing.T) {
	cfg := DefaultVelocityConfig()

	tests := []struct {
		name          string
		prev, cur     models.HistoryEntry
		wantRealistic bool
		wantSpeedKmh  float64 // -1 skips the exact check
	}{
		{
			name:          "stationary over a minute",
			prev:          models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 0},
			cur:           models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 60000},
			wantRealistic: true,
			wantSpeedKmh:  0,
		},
		{
			name:          "one degree of latitude in an hour",
			prev:          models.HistoryEntry{Latitude: 0, Longitude: 0, Timestamp: 0},
			cur:           models.HistoryEntry{Latitude: 1, Longitude: 0, Timestamp: 3600000},
			wantRealistic: true, // ~111 km/h, under the ceiling
			wantSpeedKmh:  -1,
		},
		{
			name:          "one degree of latitude in half an hour",
			prev:          models.HistoryEntry{Latitude: 0, Longitude: 0, Timestamp: 0},
			cur:           models.HistoryEntry{Latitude: 1, Longitude: 0, Timestamp: 1800000},
			wantRealistic: false, // ~222 km/h
			wantSpeedKmh:  -1,
		},
		{
			name:          "zero elapsed time at the same point",
			prev:          models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 1000},
			cur:           models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 1000},
			wantRealistic: true,
			wantSpeedKmh:  0,
		},
		{
			name:          "zero elapsed time across the city",
			prev:          models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 1000},
			cur:           models.HistoryEntry{Latitude: 13.9, Longitude: 100.6, Timestamp: 1000},
			wantRealistic: false,
			wantSpeedKmh:  math.Inf(1),
		},
		{
			name:          "clock skew with displacement",
			prev:          models.HistoryEntry{Latitude: 13.7563, Longitude: 100.5018, Timestamp: 5000},
			cur:           models.HistoryEntry{Latitude: 13.9, Longitude: 100.6, Timestamp: 1000},
			wantRealistic: false,
			wantSpeedKmh:  math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckVelocity(tt.prev, tt.cur, cfg)

			if got.IsRealistic != tt.wantRealistic {
				t.Errorf("IsRealistic = %v, want %v (speed %.1f km/h)", got.IsRealistic, tt.wantRealistic, got.SpeedKmh)
			}
			if tt.wantSpeedKmh >= 0 && got.SpeedKmh != tt.wantSpeedKmh {
				t.Errorf("SpeedKmh = %v, want %v", got.SpeedKmh, tt.wantSpeedKmh)
			}
			if got.MaxSpeedKmh != cfg.MaxSpeedKmh {
				t.Errorf("MaxSpeedKmh = %v, want %v", got.MaxSpeedKmh, cfg.MaxSpeedKmh)
			}
		})
	}
}
