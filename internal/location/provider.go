// Package location provides the secure location acquisition flow and the
// capability interfaces that keep the validation pipeline testable without
// a real device.
package location

import (
	"context"
	"errors"
	"time"

	"absensi-guard/internal/models"
)

// Acquisition error kinds. These are distinguishable, fatal to the current
// attempt, and surfaced verbatim to the caller.
var (
	ErrPermissionDenied   = errors.New("geolocation permission denied")
	ErrGeolocationTimeout = errors.New("geolocation request timed out")
	ErrUnsupported        = errors.New("geolocation not supported")
)

// Error kind strings used on the wire.
const (
	KindPermissionDenied = "permission_denied"
	KindTimeout          = "timeout"
	KindUnsupported      = "unsupported"
)

// Options control a geolocation request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCacheAge  time.Duration // 0 means no cached positions accepted
}

// DefaultOptions returns the acquisition settings used for attendance:
// high accuracy, 15 second timeout, no cached positions.
func DefaultOptions() Options {
	return Options{HighAccuracy: true, Timeout: 15 * time.Second, MaxCacheAge: 0}
}

// Provider is the device geolocation capability.
type Provider interface {
	Current(ctx context.Context, opts Options) (models.GeoReading, error)
}

// DeviceInfoProvider exposes the ambient device attributes used for
// fingerprinting and the developer-mode heuristic.
type DeviceInfoProvider interface {
	Info() models.DeviceInfo
	Environment() models.EnvironmentSignals
}

// RequestProvider adapts a client-submitted payload into the capability
// interfaces: browsers run the geolocation API themselves and report either
// a reading or the failure kind.
type RequestProvider struct {
	Reading   *models.GeoReading
	ErrorKind string
	Device    models.DeviceInfo
	Env       models.EnvironmentSignals
}

func (p *RequestProvider) Current(ctx context.Context, opts Options) (models.GeoReading, error) {
	switch p.ErrorKind {
	case KindPermissionDenied:
		return models.GeoReading{}, ErrPermissionDenied
	case KindTimeout:
		return models.GeoReading{}, ErrGeolocationTimeout
	case KindUnsupported:
		return models.GeoReading{}, ErrUnsupported
	}
	if p.Reading == nil {
		return models.GeoReading{}, ErrUnsupported
	}
	return *p.Reading, nil
}

func (p *RequestProvider) Info() models.DeviceInfo {
	return p.Device
}

func (p *RequestProvider) Environment() models.EnvironmentSignals {
	return p.Env
}

// KindOf maps an acquisition error back to its wire kind, or "" for errors
// that are not capability errors.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrGeolocationTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	}
	return ""
}
