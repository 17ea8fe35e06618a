package location

import (
	"context"
	"log"

	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/models"
)

// Flow orchestrates one secure location acquisition: acquire a reading, run
// the comprehensive validator against the most recent history entry, encode
// the device fingerprint and append the reading to history. Single pass, no
// internal retries.
type Flow struct {
	Provider  Provider
	Devices   DeviceInfoProvider
	History   antifraud.HistoryStore
	Validator *antifraud.Validator
	Options   Options
}

// NewFlow creates a flow with the default acquisition options.
func NewFlow(provider Provider, devices DeviceInfoProvider, history antifraud.HistoryStore, validator *antifraud.Validator) *Flow {
	return &Flow{
		Provider:  provider,
		Devices:   devices,
		History:   history,
		Validator: validator,
		Options:   DefaultOptions(),
	}
}

// Acquire runs the flow for one client. Acquisition failures are fatal to
// the attempt and nothing is appended to history; history read failures are
// best-effort context and only lose the velocity signal.
func (f *Flow) Acquire(ctx context.Context, clientID string) (*models.SecureLocationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Options.Timeout)
	defer cancel()

	reading, err := f.Provider.Current(ctx, f.Options)
	if err != nil {
		return nil, err
	}

	var prev *models.HistoryEntry
	entries, err := f.History.Recent(ctx, clientID)
	if err != nil {
		log.Printf("Warning: failed to read location history for %s: %v", clientID, err)
	} else if len(entries) > 0 {
		prev = &entries[len(entries)-1]
	}

	validation := f.Validator.Validate(ctx, reading, prev, f.Devices.Environment())
	fingerprint := antifraud.EncodeFingerprint(f.Devices.Info())

	if err := f.History.Append(ctx, clientID, models.HistoryEntry{
		Latitude:  reading.Latitude,
		Longitude: reading.Longitude,
		Timestamp: reading.Timestamp,
	}); err != nil {
		log.Printf("Warning: failed to append location history for %s: %v", clientID, err)
	}

	return &models.SecureLocationResult{
		Reading:     reading,
		Validation:  validation,
		Fingerprint: fingerprint,
		IsSecure:    validation.IsValid && validation.RiskLevel != models.RiskHigh,
	}, nil
}
