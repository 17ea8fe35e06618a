package antifraud

import (
	"math"
	"strconv"
	"strings"
	"time"

	"absensi-guard/internal/models"
)

// DetectorConfig holds the tunable constants of the mock-location checks.
// The deduction weights are heuristic calibration values, not guarantees.
type DetectorConfig struct {
	MinAccuracyMeters      float64 // readings more precise than this look synthetic
	PerfectAccuracyPenalty float64
	RoundedCoordPenalty    float64
	PatternPenalty         float64
	MinAltitudeMeters      float64
	MaxAltitudeMeters      float64
	AltitudePenalty        float64
	SpeedPenalty           float64
	MaxReadingAgeMs        int64
	StaleTimestampPenalty  float64
	HighRiskBelow          float64
	MediumRiskBelow        float64
	ValidThreshold         float64
}

// DefaultDetectorConfig returns the calibration used in production.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinAccuracyMeters:      5,
		PerfectAccuracyPenalty: 15,
		RoundedCoordPenalty:    20,
		PatternPenalty:         15,
		MinAltitudeMeters:      -100,
		MaxAltitudeMeters:      10000,
		AltitudePenalty:        10,
		SpeedPenalty:           10,
		MaxReadingAgeMs:        30000,
		StaleTimestampPenalty:  10,
		HighRiskBelow:          60,
		MediumRiskBelow:        80,
		ValidThreshold:         70,
	}
}

// Detector inspects a single geolocation reading for signs of spoofing.
type Detector struct {
	Config DetectorConfig
	Now    func() time.Time // defaults to time.Now
}

// NewDetector creates a detector with the default calibration.
func NewDetector() *Detector {
	return &Detector{Config: DefaultDetectorConfig()}
}

// Detect scores one reading. Confidence starts at 100 and each triggered
// check subtracts its penalty; deductions are independent and cumulative,
// and the result is not clamped at zero.
func (d *Detector) Detect(reading models.GeoReading) models.ValidationResult {
	cfg := d.Config
	warnings := []string{}
	issues := []string{}
	confidence := 100.0

	// Mock locations often report perfect accuracy
	if reading.Accuracy < cfg.MinAccuracyMeters {
		warnings = append(warnings, "Suspiciously high GPS accuracy detected")
		confidence -= cfg.PerfectAccuracyPenalty
		issues = append(issues, "perfect_accuracy")
	}

	if isWholeDegree(reading.Latitude) || isWholeDegree(reading.Longitude) {
		warnings = append(warnings, "Coordinates appear to be manually set")
		confidence -= cfg.RoundedCoordPenalty
		issues = append(issues, "rounded_coordinates")
	}

	if hasArtificialPattern(reading.Latitude) || hasArtificialPattern(reading.Longitude) {
		warnings = append(warnings, "Coordinates show artificial patterns")
		confidence -= cfg.PatternPenalty
		issues = append(issues, "artificial_pattern")
	}

	if reading.Altitude != nil {
		if *reading.Altitude < cfg.MinAltitudeMeters || *reading.Altitude > cfg.MaxAltitudeMeters {
			warnings = append(warnings, "Unrealistic altitude detected")
			confidence -= cfg.AltitudePenalty
			issues = append(issues, "unrealistic_altitude")
		}
	}

	if reading.Speed != nil && *reading.Speed < 0 {
		warnings = append(warnings, "Invalid speed value detected")
		confidence -= cfg.SpeedPenalty
		issues = append(issues, "invalid_speed")
	}

	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	// Only past readings count as stale; a future timestamp is clock skew,
	// not a replayed position.
	age := now.UnixMilli() - reading.Timestamp
	if age > cfg.MaxReadingAgeMs {
		warnings = append(warnings, "GPS timestamp is significantly outdated")
		confidence -= cfg.StaleTimestampPenalty
		issues = append(issues, "outdated_timestamp")
	}

	riskLevel := models.RiskLow
	if confidence < cfg.HighRiskBelow {
		riskLevel = models.RiskHigh
	} else if confidence < cfg.MediumRiskBelow {
		riskLevel = models.RiskMedium
	}

	return models.ValidationResult{
		IsValid:        confidence >= cfg.ValidThreshold,
		Confidence:     confidence,
		Warnings:       warnings,
		RiskLevel:      riskLevel,
		DetectedIssues: issues,
	}
}

func isWholeDegree(coord float64) bool {
	return coord == math.Trunc(coord)
}

// sequentialRuns are decimal windows commonly produced by hand-typed
// coordinates in mock location apps.
var sequentialRuns = []string{
	"1234", "2345", "3456", "4567", "5678", "6789",
	"9876", "8765", "7654", "6543", "5432", "4321",
}

// hasArtificialPattern reports whether the decimal fraction of a coordinate
// contains a repeated-digit or sequential run of four or more digits.
func hasArtificialPattern(coord float64) bool {
	s := strconv.FormatFloat(coord, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}
	decimals := s[dot+1:]
	if len(decimals) < 4 {
		return false
	}

	run := 1
	for i := 1; i < len(decimals); i++ {
		if decimals[i] == decimals[i-1] {
			run++
			if run >= 4 {
				return true
			}
		} else {
			run = 1
		}
	}

	for _, seq := range sequentialRuns {
		if strings.Contains(decimals, seq) {
			return true
		}
	}
	return false
}
