package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/models"
)

func testValidator(now time.Time) *antifraud.Validator {
	v := antifraud.NewValidator()
	v.Detector.Now = func() time.Time { return now }
	return v
}

func TestAcquireCapabilityErrors(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		kind    string
		wantErr error
	}{
		{KindPermissionDenied, ErrPermissionDenied},
		{KindTimeout, ErrGeolocationTimeout},
		{KindUnsupported, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			history := antifraud.NewMemoryHistoryStore()
			provider := &RequestProvider{ErrorKind: tt.kind}
			flow := NewFlow(provider, provider, history, testValidator(now))

			_, err := flow.Acquire(context.Background(), "client-1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Acquire() error = %v, want %v", err, tt.wantErr)
			}
			if KindOf(err) != tt.kind {
				t.Errorf("KindOf() = %q, want %q", KindOf(err), tt.kind)
			}

			// Failed acquisitions must leave no trace in history
			entries, _ := history.Recent(context.Background(), "client-1")
			if len(entries) != 0 {
				t.Errorf("expected empty history after failed acquisition, got %d entries", len(entries))
			}
		})
	}
}

func TestAcquireMissingReading(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	provider := &RequestProvider{} // no reading, no error kind
	flow := NewFlow(provider, provider, antifraud.NewMemoryHistoryStore(), testValidator(now))

	_, err := flow.Acquire(context.Background(), "client-1")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Acquire() error = %v, want %v", err, ErrUnsupported)
	}
}

func TestAcquireCleanReading(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	reading := models.GeoReading{
		Latitude: 13.7563021, Longitude: 100.5017651,
		Accuracy: 12, Timestamp: now.UnixMilli(),
	}
	device := models.DeviceInfo{UserAgent: "test-agent", Timezone: "Asia/Bangkok"}

	history := antifraud.NewMemoryHistoryStore()
	provider := &RequestProvider{Reading: &reading, Device: device}
	flow := NewFlow(provider, provider, history, testValidator(now))

	result, err := flow.Acquire(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	if result.Validation.Confidence != 100 {
		t.Errorf("Confidence = %.0f, want 100", result.Validation.Confidence)
	}
	if !result.IsSecure {
		t.Error("expected clean reading to be secure")
	}
	if result.Reading != reading {
		t.Errorf("Reading = %+v, want %+v", result.Reading, reading)
	}

	decoded, err := antifraud.DecodeFingerprint(result.Fingerprint)
	if err != nil {
		t.Fatalf("fingerprint not decodable: %v", err)
	}
	if decoded.UserAgent != device.UserAgent {
		t.Errorf("fingerprint UserAgent = %s, want %s", decoded.UserAgent, device.UserAgent)
	}

	entries, _ := history.Recent(context.Background(), "client-1")
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].Latitude != reading.Latitude || entries[0].Timestamp != reading.Timestamp {
		t.Errorf("history entry mismatch: %+v", entries[0])
	}
}

func TestAcquireUsesHistoryForVelocity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	history := antifraud.NewMemoryHistoryStore()

	// Last seen in Chiang Mai a minute ago; reading claims Bangkok now.
	history.Append(context.Background(), "client-1", models.HistoryEntry{
		Latitude: 18.7883, Longitude: 98.9853,
		Timestamp: now.Add(-time.Minute).UnixMilli(),
	})

	reading := models.GeoReading{
		Latitude: 13.7563021, Longitude: 100.5017651,
		Accuracy: 12, Timestamp: now.UnixMilli(),
	}
	provider := &RequestProvider{Reading: &reading}
	flow := NewFlow(provider, provider, history, testValidator(now))

	result, err := flow.Acquire(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	found := false
	for _, issue := range result.Validation.DetectedIssues {
		if issue == "impossible_velocity" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected impossible_velocity issue, got %v", result.Validation.DetectedIssues)
	}

	// The new reading is still appended for the next check
	entries, _ := history.Recent(context.Background(), "client-1")
	if len(entries) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(entries))
	}
}
