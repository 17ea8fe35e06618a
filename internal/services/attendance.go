// Package services implements business logic for the application
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/geofence"
	"absensi-guard/internal/location"
	"absensi-guard/internal/models"
	"absensi-guard/internal/repository"
)

// Attendance statuses
const (
	StatusOnTime = "ontime"
	StatusLate   = "late"
	StatusMakeup = "makeup"
)

// Clock attempt outcomes. Validation rejections are results, not errors.
const (
	OutcomeRecorded        = "recorded"
	OutcomeConfirmRequired = "confirm_required"
	OutcomeRejected        = "rejected"
)

// ClockRequest carries one clock-in or clock-out attempt.
type ClockRequest struct {
	UserID    string
	ShiftID   string
	ClientID  string
	PhotoURL  string
	Reading   *models.GeoReading
	ErrorKind string // set when browser-side acquisition failed
	Device    models.DeviceInfo
	Env       models.EnvironmentSignals
	Confirmed bool // user acknowledged a medium-risk warning
}

// ClockResult is the structured outcome of a clock attempt.
type ClockResult struct {
	Outcome         string                       `json:"outcome"`
	Message         string                       `json:"message,omitempty"`
	Status          string                       `json:"status,omitempty"`
	Security        *models.SecureLocationResult `json:"security,omitempty"`
	NearestLocation string                       `json:"nearest_location,omitempty"`
	NearestDistance float64                      `json:"nearest_distance,omitempty"`
	Attendance      *models.Attendance           `json:"attendance,omitempty"`
}

// BotNotifier defines the interface for bot notifications
type BotNotifier interface {
	SendNotification(message string)
	SendPersonalNotification(chatID int64, message string)
}

// AttendanceService handles attendance business logic
type AttendanceService struct {
	profileRepo    repository.ProfileRepository
	shiftRepo      repository.ShiftRepository
	attendanceRepo repository.AttendanceRepository
	locations      LocationSource
	history        antifraud.HistoryStore
	validator      *antifraud.Validator
	botNotifier    BotNotifier

	GracePeriod  time.Duration // allowed lateness after shift start
	ClockOutLead time.Duration // clock-out window opens this long before shift end
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	profileRepo repository.ProfileRepository,
	shiftRepo repository.ShiftRepository,
	attendanceRepo repository.AttendanceRepository,
	locations LocationSource,
	history antifraud.HistoryStore,
	validator *antifraud.Validator,
	botNotifier BotNotifier,
) *AttendanceService {
	return &AttendanceService{
		profileRepo:    profileRepo,
		shiftRepo:      shiftRepo,
		attendanceRepo: attendanceRepo,
		locations:      locations,
		history:        history,
		validator:      validator,
		botNotifier:    botNotifier,
		GracePeriod:    15 * time.Minute,
		ClockOutLead:   30 * time.Minute,
	}
}

// SecureLocation runs the acquisition flow for one request without
// recording anything. Capability errors (denied, timeout, unsupported)
// are returned as-is.
func (s *AttendanceService) SecureLocation(ctx context.Context, req *ClockRequest) (*models.SecureLocationResult, error) {
	provider := &location.RequestProvider{
		Reading:   req.Reading,
		ErrorKind: req.ErrorKind,
		Device:    req.Device,
		Env:       req.Env,
	}
	flow := location.NewFlow(provider, provider, s.history, s.validator)
	return flow.Acquire(ctx, req.ClientID)
}

// ClearHistory empties the retained location history for a client.
func (s *AttendanceService) ClearHistory(ctx context.Context, clientID string) error {
	return s.history.Clear(ctx, clientID)
}

// ClockIn validates and records a clock-in attempt.
func (s *AttendanceService) ClockIn(ctx context.Context, req *ClockRequest) (*ClockResult, error) {
	shift, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve shift: %w", err)
	}

	existing, err := s.attendanceRepo.GetTodayByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance status: %w", err)
	}
	if existing != nil {
		return &ClockResult{Outcome: OutcomeRejected, Message: "already clocked in today"}, nil
	}

	secure, err := s.SecureLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	if decision := s.riskDecision(secure, req.Confirmed); decision != nil {
		if decision.Outcome == OutcomeRejected {
			s.notifyBlocked(ctx, req.UserID, "clock-in", secure)
		}
		return decision, nil
	}

	if decision, err := s.geofenceDecision(ctx, secure); err != nil {
		return nil, err
	} else if decision != nil {
		return decision, nil
	}

	now := time.Now()
	status := calculateStatus(now, shift.StartTime, s.GracePeriod)
	securityJSON, _ := json.Marshal(secure.Validation)

	attendance := &models.Attendance{
		UserID:            req.UserID,
		ShiftID:           shift.ID,
		ClockInTime:       now,
		Status:            status,
		Method:            "clock",
		Location:          formatLatLng(secure.Reading.Latitude, secure.Reading.Longitude),
		PhotoURL:          req.PhotoURL,
		SecurityData:      string(securityJSON),
		RiskLevel:         string(secure.Validation.RiskLevel),
		DeviceFingerprint: secure.Fingerprint,
		CreatedDate:       now,
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	log.Printf("✅ User %s clocked in at %s (Status: %s)", req.UserID, now.Format("15:04:05"), status)
	s.sendClockInNotification(ctx, req.UserID, shift, now, status)

	return &ClockResult{
		Outcome:    OutcomeRecorded,
		Status:     status,
		Security:   secure,
		Attendance: attendance,
	}, nil
}

// ClockOut validates and records a clock-out on today's open attendance.
func (s *AttendanceService) ClockOut(ctx context.Context, req *ClockRequest) (*ClockResult, error) {
	existing, err := s.attendanceRepo.GetTodayByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance status: %w", err)
	}
	if existing == nil {
		return &ClockResult{Outcome: OutcomeRejected, Message: "no clock-in recorded today"}, nil
	}
	if existing.IsClockedOut || existing.ClockOutTime != nil {
		return &ClockResult{Outcome: OutcomeRejected, Message: "already clocked out today"}, nil
	}

	now := time.Now()
	if shift, err := s.shiftRepo.GetByID(ctx, existing.ShiftID); err == nil {
		if !clockOutAllowed(now, shift.EndTime, s.ClockOutLead) {
			return &ClockResult{Outcome: OutcomeRejected, Message: "clock-out not yet available for this shift"}, nil
		}
	}

	secure, err := s.SecureLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	if decision := s.riskDecision(secure, req.Confirmed); decision != nil {
		if decision.Outcome == OutcomeRejected {
			s.notifyBlocked(ctx, req.UserID, "clock-out", secure)
		}
		return decision, nil
	}

	if decision, err := s.geofenceDecision(ctx, secure); err != nil {
		return nil, err
	} else if decision != nil {
		return decision, nil
	}

	securityJSON, _ := json.Marshal(secure.Validation)
	existing.ClockOutTime = &now
	existing.ClockOutLocation = formatLatLng(secure.Reading.Latitude, secure.Reading.Longitude)
	existing.ClockOutSecurity = string(securityJSON)
	existing.IsClockedOut = true

	if err := s.attendanceRepo.SetClockOut(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to record clock-out: %w", err)
	}

	log.Printf("✅ User %s clocked out at %s", req.UserID, now.Format("15:04:05"))

	return &ClockResult{
		Outcome:    OutcomeRecorded,
		Status:     existing.Status,
		Security:   secure,
		Attendance: existing,
	}, nil
}

// riskDecision applies the caller decision policy: high risk is a hard
// reject, medium risk requires explicit confirmation, low risk proceeds
// silently. A nil result means proceed.
func (s *AttendanceService) riskDecision(secure *models.SecureLocationResult, confirmed bool) *ClockResult {
	if !secure.IsSecure || secure.Validation.RiskLevel == models.RiskHigh {
		return &ClockResult{
			Outcome:  OutcomeRejected,
			Message:  fmt.Sprintf("location validation failed: risk %s, confidence %.0f%%", secure.Validation.RiskLevel, secure.Validation.Confidence),
			Security: secure,
		}
	}
	if secure.Validation.RiskLevel == models.RiskMedium && !confirmed {
		return &ClockResult{
			Outcome:  OutcomeConfirmRequired,
			Message:  "location validation raised warnings; confirmation required",
			Security: secure,
		}
	}
	return nil
}

// geofenceDecision rejects positions outside all configured geofences,
// attaching the nearest location for user messaging. A nil result means
// proceed.
func (s *AttendanceService) geofenceDecision(ctx context.Context, secure *models.SecureLocationResult) (*ClockResult, error) {
	locations, err := s.locations.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load valid locations: %w", err)
	}

	check := geofence.Check(secure.Reading.Latitude, secure.Reading.Longitude, locations)
	if check.IsValid {
		return nil, nil
	}

	result := &ClockResult{
		Outcome:  OutcomeRejected,
		Message:  "outside all valid attendance locations",
		Security: secure,
	}
	if nearest, distance, ok := geofence.NearestDistance(secure.Reading.Latitude, secure.Reading.Longitude, locations); ok {
		result.NearestLocation = nearest.Name
		result.NearestDistance = distance
		result.Message = fmt.Sprintf("outside all valid attendance locations (nearest: %s, %.0f m away)", nearest.Name, distance)
	}
	return result, nil
}

// sendClockInNotification notifies the employee, and the admin when late.
func (s *AttendanceService) sendClockInNotification(ctx context.Context, userID string, shift *models.Shift, clockInTime time.Time, status string) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load profile for notification: %v", err)
		return
	}

	statusEmoji := "✅"
	statusText := "on time"
	if status == StatusLate {
		statusEmoji = "⚠️"
		statusText = lateStatusText(clockInTime, shift.StartTime)
	}

	message := fmt.Sprintf(
		"%s *Good morning, %s!*\n\n"+
			"🕐 Clock-in: `%s`\n"+
			"📋 Shift: `%s`\n"+
			"⏰ Status: *%s*",
		statusEmoji, profile.Name, clockInTime.Format("15:04:05"), shift.Name, statusText,
	)
	if profile.TelegramChatID != 0 {
		s.botNotifier.SendPersonalNotification(profile.TelegramChatID, message)
	}

	if status == StatusLate {
		adminMessage := fmt.Sprintf("⚠️ *Late clock-in*\n👤 Name: `%s`\n🕐 Time: `%s`\n⏰ %s",
			profile.Name, clockInTime.Format("15:04:05"), statusText)
		s.botNotifier.SendNotification(adminMessage)
	}
}

// notifyBlocked alerts the admin about a rejected high-risk attempt.
func (s *AttendanceService) notifyBlocked(ctx context.Context, userID, action string, secure *models.SecureLocationResult) {
	name := userID
	if profile, err := s.profileRepo.GetByID(ctx, userID); err == nil {
		name = profile.Name
	}

	message := fmt.Sprintf("🚫 *Blocked %s attempt*\n👤 User: `%s`\n📉 Confidence: `%.0f%%`\n🏷 Issues: `%v`",
		action, name, secure.Validation.Confidence, secure.Validation.DetectedIssues)
	s.botNotifier.SendNotification(message)
}

// calculateStatus determines if a clock-in is on time or late
func calculateStatus(clockInTime time.Time, shiftStart string, grace time.Duration) string {
	start, err := time.Parse("15:04:05", shiftStart)
	if err != nil {
		return StatusOnTime // Default to ontime if can't parse
	}

	todayStart := time.Date(
		clockInTime.Year(),
		clockInTime.Month(),
		clockInTime.Day(),
		start.Hour(),
		start.Minute(),
		start.Second(),
		0,
		clockInTime.Location(),
	)

	if clockInTime.Before(todayStart.Add(grace)) {
		return StatusOnTime
	}
	return StatusLate
}

// lateStatusText reports lateness in minutes for display
func lateStatusText(clockInTime time.Time, shiftStart string) string {
	start, err := time.Parse("15:04:05", shiftStart)
	if err != nil {
		return "late"
	}

	todayStart := time.Date(
		clockInTime.Year(),
		clockInTime.Month(),
		clockInTime.Day(),
		start.Hour(),
		start.Minute(),
		start.Second(),
		0,
		clockInTime.Location(),
	)

	lateMinutes := int(clockInTime.Sub(todayStart).Minutes())
	return fmt.Sprintf("late by %d minutes", lateMinutes)
}

// clockOutAllowed reports whether the clock-out window is open: from the
// configured lead before shift end onwards.
func clockOutAllowed(now time.Time, shiftEnd string, lead time.Duration) bool {
	end, err := time.Parse("15:04:05", shiftEnd)
	if err != nil {
		return true
	}

	todayEnd := time.Date(
		now.Year(),
		now.Month(),
		now.Day(),
		end.Hour(),
		end.Minute(),
		end.Second(),
		0,
		now.Location(),
	)

	return !now.Before(todayEnd.Add(-lead))
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
