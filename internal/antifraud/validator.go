package antifraud

import (
	"context"
	"fmt"

	"absensi-guard/internal/models"
)

// ValidatorConfig holds the orchestrator's own deduction weights and risk
// thresholds. These are intentionally looser than the raw detector's since
// the combined score aggregates more signals; the two threshold sets must
// stay distinct.
type ValidatorConfig struct {
	DeveloperModePenalty float64
	VelocityPenalty      float64
	MismatchMeters       float64
	MismatchPenalty      float64
	HighRiskBelow        float64
	MediumRiskBelow      float64
	ValidThreshold       float64
}

// DefaultValidatorConfig returns the calibration used in production.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		DeveloperModePenalty: 25,
		VelocityPenalty:      30,
		MismatchMeters:       1000,
		MismatchPenalty:      20,
		HighRiskBelow:        50,
		MediumRiskBelow:      75,
		ValidThreshold:       60,
	}
}

// Validator combines the mock-location detector, developer-mode heuristic,
// velocity check and network cross-check into one risk assessment.
type Validator struct {
	Detector *Detector
	Velocity VelocityConfig
	Network  IPLocator // nil disables the cross-check
	Config   ValidatorConfig
}

// NewValidator creates a validator with default calibration and no network
// cross-check.
func NewValidator() *Validator {
	return &Validator{
		Detector: NewDetector(),
		Velocity: DefaultVelocityConfig(),
		Config:   DefaultValidatorConfig(),
	}
}

// Validate scores a reading against all signals. The combined confidence is
// re-derived from a base of 100 minus the union of triggered deductions;
// the detector's own clamps and thresholds do not carry over. The velocity
// check runs only when a previous location exists, and the network
// cross-check is best-effort: its absence contributes nothing.
func (v *Validator) Validate(ctx context.Context, reading models.GeoReading, prev *models.HistoryEntry, env models.EnvironmentSignals) models.ValidationResult {
	detection := v.Detector.Detect(reading)

	confidence := detection.Confidence
	warnings := append([]string{}, detection.Warnings...)
	issues := append([]string{}, detection.DetectedIssues...)

	if DetectDeveloperMode(env) {
		warnings = append(warnings, "Device appears to be in developer/debug mode")
		confidence -= v.Config.DeveloperModePenalty
		issues = append(issues, "developer_mode")
	}

	if prev != nil {
		velocity := CheckVelocity(*prev, models.HistoryEntry{
			Latitude:  reading.Latitude,
			Longitude: reading.Longitude,
			Timestamp: reading.Timestamp,
		}, v.Velocity)

		if !velocity.IsRealistic {
			warnings = append(warnings, fmt.Sprintf("Impossible travel speed detected: %.1f km/h", velocity.SpeedKmh))
			confidence -= v.Config.VelocityPenalty
			issues = append(issues, "impossible_velocity")
		}
	}

	if v.Network != nil {
		if netLat, netLng, ok := v.Network.Locate(ctx); ok {
			distance := Haversine(reading.Latitude, reading.Longitude, netLat, netLng)
			if distance > v.Config.MismatchMeters {
				warnings = append(warnings, "GPS location differs significantly from network location")
				confidence -= v.Config.MismatchPenalty
				issues = append(issues, "location_mismatch")
			}
		}
	}

	riskLevel := models.RiskLow
	if confidence < v.Config.HighRiskBelow {
		riskLevel = models.RiskHigh
	} else if confidence < v.Config.MediumRiskBelow {
		riskLevel = models.RiskMedium
	}

	return models.ValidationResult{
		IsValid:        confidence >= v.Config.ValidThreshold,
		Confidence:     confidence,
		Warnings:       warnings,
		RiskLevel:      riskLevel,
		DetectedIssues: issues,
	}
}
