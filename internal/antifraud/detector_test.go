package antifraud

import (
	"testing"
	"time"

	"absensi-guard/internal/models"
)

func fixedDetector(now time.Time) *Detector {
	d := NewDetector()
	d.Now = func() time.Time { return now }
	return d
}

func TestDetect(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fresh := now.UnixMilli()
	badAltitude := 12000.0
	negativeSpeed := -1.0

	tests := []struct {
		name           string
		reading        models.GeoReading
		wantConfidence float64
		wantRisk       models.RiskLevel
		wantValid      bool
		wantIssues     []string
	}{
		{
			name: "clean reading",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 12, Timestamp: fresh,
			},
			wantConfidence: 100,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{},
		},
		{
			name: "suspiciously perfect accuracy",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 2, Timestamp: fresh,
			},
			wantConfidence: 85,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"perfect_accuracy"},
		},
		{
			name: "whole-degree coordinates",
			reading: models.GeoReading{
				Latitude: 13.0, Longitude: 100.5017651,
				Accuracy: 12, Timestamp: fresh,
			},
			wantConfidence: 80,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"rounded_coordinates"},
		},
		{
			name: "repeated decimal digits",
			reading: models.GeoReading{
				Latitude: 13.444479, Longitude: 100.5017651,
				Accuracy: 12, Timestamp: fresh,
			},
			wantConfidence: 85,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"artificial_pattern"},
		},
		{
			name: "sequential decimal digits",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.1234709,
				Accuracy: 12, Timestamp: fresh,
			},
			wantConfidence: 85,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"artificial_pattern"},
		},
		{
			name: "unrealistic altitude",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 12, Altitude: &badAltitude, Timestamp: fresh,
			},
			wantConfidence: 90,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"unrealistic_altitude"},
		},
		{
			name: "negative speed",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 12, Speed: &negativeSpeed, Timestamp: fresh,
			},
			wantConfidence: 90,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"invalid_speed"},
		},
		{
			name: "stale timestamp",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 12, Timestamp: now.Add(-time.Minute).UnixMilli(),
			},
			wantConfidence: 90,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{"outdated_timestamp"},
		},
		{
			name: "future timestamp from clock skew",
			reading: models.GeoReading{
				Latitude: 13.7563021, Longitude: 100.5017651,
				Accuracy: 12, Timestamp: now.Add(time.Minute).UnixMilli(),
			},
			wantConfidence: 100,
			wantRisk:       models.RiskLow,
			wantValid:      true,
			wantIssues:     []string{},
		},
		{
			name: "perfect accuracy on whole-degree coordinates",
			reading: models.GeoReading{
				Latitude: 10.0, Longitude: 100.5017651,
				Accuracy: 1, Timestamp: fresh,
			},
			wantConfidence: 65,
			wantRisk:       models.RiskMedium,
			wantValid:      false,
			wantIssues:     []string{"perfect_accuracy", "rounded_coordinates"},
		},
		{
			name: "everything wrong at once",
			reading: models.GeoReading{
				Latitude: 10.0, Longitude: 100.1234709,
				Accuracy: 1, Altitude: &badAltitude, Speed: &negativeSpeed,
				Timestamp: now.Add(-time.Minute).UnixMilli(),
			},
			wantConfidence: 20,
			wantRisk:       models.RiskHigh,
			wantValid:      false,
			wantIssues: []string{
				"perfect_accuracy", "rounded_coordinates", "artificial_pattern",
				"unrealistic_altitude", "invalid_speed", "outdated_timestamp",
			},
		},
	}

	detector := fixedDetector(now)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Detect(tt.reading)

			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %.0f, want %.0f", got.Confidence, tt.wantConfidence)
			}
			if got.RiskLevel != tt.wantRisk {
				t.Errorf("RiskLevel = %s, want %s", got.RiskLevel, tt.wantRisk)
			}
			if got.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", got.IsValid, tt.wantValid)
			}
			if len(got.DetectedIssues) != len(tt.wantIssues) {
				t.Fatalf("DetectedIssues = %v, want %v", got.DetectedIssues, tt.wantIssues)
			}
			for i, issue := range tt.wantIssues {
				if got.DetectedIssues[i] != issue {
					t.Errorf("DetectedIssues[%d] = %s, want %s", i, got.DetectedIssues[i], issue)
				}
			}
			if len(got.Warnings) != len(tt.wantIssues) {
				t.Errorf("expected one warning per issue, got %d warnings for %d issues",
					len(got.Warnings), len(tt.wantIssues))
			}
		})
	}
}

func TestHasArtificialPattern(t *testing.T) {
	tests := []struct {
		coord float64
		want  bool
	}{
		{13.7563021, false},
		{13.444479, true},   // 4444 repeated
		{100.1234709, true}, // 1234 ascending
		{100.9876121, true}, // 9876 descending
		{13.444, false},     // run too short
		{13.0, false},       // no decimal fraction
	}

	for _, tt := range tests {
		if got := hasArtificialPattern(tt.coord); got != tt.want {
			t.Errorf("hasArtificialPattern(%v) = %v, want %v", tt.coord, got, tt.want)
		}
	}
}
