// Package models contains data structures for the application
package models

import (
	"time"
)

// GeoReading represents one sampled device position (WGS84)
type GeoReading struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`           // meters
	Altitude  *float64 `json:"altitude,omitempty"` // meters, optional
	Speed     *float64 `json:"speed,omitempty"`    // m/s, optional
	Timestamp int64    `json:"timestamp"`          // epoch milliseconds
}

// DeviceInfo describes the requesting device/browser for fraud corroboration
type DeviceInfo struct {
	UserAgent           string `json:"userAgent"`
	Platform            string `json:"platform"`
	Language            string `json:"language"`
	Timezone            string `json:"timezone"`
	ScreenResolution    string `json:"screenResolution"` // "WxH"
	DeviceMemory        *int   `json:"deviceMemory,omitempty"`
	HardwareConcurrency *int   `json:"hardwareConcurrency,omitempty"`
}

// EnvironmentSignals carries client-reported developer/debug-mode indicators
type EnvironmentSignals struct {
	Localhost       bool `json:"localhost"`
	FileProtocol    bool `json:"file_protocol"`
	DevtoolsRuntime bool `json:"devtools_runtime"`
	DevtoolsHook    bool `json:"devtools_hook"`
	MockLocationUA  bool `json:"mock_location_ua"`
	FakeGPSUA       bool `json:"fake_gps_ua"`
}

// RiskLevel classifies a validation confidence score for decision-making
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ValidationResult is the outcome of the anti-fraud pipeline for one reading
type ValidationResult struct {
	IsValid        bool      `json:"isValid"`
	Confidence     float64   `json:"confidence"`
	Warnings       []string  `json:"warnings"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	DetectedIssues []string  `json:"detectedIssues"`
}

// HistoryEntry is one retained past position used for velocity checks
type HistoryEntry struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
}

// SecureLocationResult bundles an acquisition with its validation evidence
type SecureLocationResult struct {
	Reading     GeoReading       `json:"reading"`
	Validation  ValidationResult `json:"validation"`
	Fingerprint string           `json:"deviceFingerprint"` // base64-encoded DeviceInfo JSON
	IsSecure    bool             `json:"isSecure"`
}

// ValidLocation is an admin-configured geofence for attendance
type ValidLocation struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	RadiusMeter float64 `json:"radius_meter"`
	Active      bool    `json:"active"`
}

// Profile represents an application user
type Profile struct {
	ID             string
	Name           string
	Role           string // "admin" or "user"
	TelegramChatID int64
}

// Shift represents a configured work shift
type Shift struct {
	ID        string
	Name      string
	StartTime string // "15:04:05"
	EndTime   string // "15:04:05"
	DayType   string
	Active    bool
}

// UserShift assigns a shift to a user for a date
type UserShift struct {
	ID      string
	UserID  string
	ShiftID string
	Date    string // "2006-01-02"
}

// Attendance represents a clock-in record with its security evidence
type Attendance struct {
	ID                string
	UserID            string
	ShiftID           string
	ClockInTime       time.Time
	Status            string // "ontime", "late", "makeup"
	Method            string // "clock" or "makeup"
	Location          string // "lat,lng"
	PhotoURL          string
	SecurityData      string // JSON-encoded ValidationResult
	RiskLevel         string
	DeviceFingerprint string
	ClockOutTime      *time.Time
	ClockOutLocation  string
	ClockOutSecurity  string // JSON-encoded ValidationResult
	IsClockedOut      bool
	Reason            string
	ApprovedBy        string
	CreatedDate       time.Time
}

// MakeupRequest represents a request to record attendance for a missed day
type MakeupRequest struct {
	ID          string
	UserID      string
	Date        string // "2006-01-02", the missed attendance day
	Reason      string
	EvidenceURL string
	Status      string // "pending", "approved", "rejected"
	AdminNotes  string
	ApprovedBy  string
	CreatedAt   time.Time
}
