package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"absensi-guard/internal/models"
	"absensi-guard/internal/repository"
)

// Make-up request statuses
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// MakeupService handles make-up attendance requests.
type MakeupService struct {
	makeupRepo     repository.MakeupRepository
	attendanceRepo repository.AttendanceRepository
	profileRepo    repository.ProfileRepository
	botNotifier    BotNotifier
}

// NewMakeupService creates a new make-up request service
func NewMakeupService(
	makeupRepo repository.MakeupRepository,
	attendanceRepo repository.AttendanceRepository,
	profileRepo repository.ProfileRepository,
	botNotifier BotNotifier,
) *MakeupService {
	return &MakeupService{
		makeupRepo:     makeupRepo,
		attendanceRepo: attendanceRepo,
		profileRepo:    profileRepo,
		botNotifier:    botNotifier,
	}
}

// Submit records a new pending make-up request and alerts the admin.
func (s *MakeupService) Submit(ctx context.Context, request *models.MakeupRequest) error {
	if request.UserID == "" || request.Date == "" || request.Reason == "" {
		return fmt.Errorf("user, date and reason are required")
	}
	if _, err := time.Parse("2006-01-02", request.Date); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	if err := s.makeupRepo.Create(ctx, request); err != nil {
		return err
	}

	name := request.UserID
	if profile, err := s.profileRepo.GetByID(ctx, request.UserID); err == nil {
		name = profile.Name
	}
	s.botNotifier.SendNotification(fmt.Sprintf("📝 *New make-up request*\n👤 Name: `%s`\n📅 Date: `%s`\n💬 %s",
		name, request.Date, request.Reason))

	return nil
}

// ListPending returns the requests awaiting an admin decision.
func (s *MakeupService) ListPending(ctx context.Context) ([]models.MakeupRequest, error) {
	return s.makeupRepo.ListPending(ctx)
}

// Decide applies an admin decision. Approval creates a make-up attendance
// record for the missed day.
func (s *MakeupService) Decide(ctx context.Context, requestID, status, notes, adminID string) error {
	if status != RequestApproved && status != RequestRejected {
		return fmt.Errorf("invalid decision status: %s", status)
	}

	request, err := s.makeupRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != RequestPending {
		return fmt.Errorf("request already decided: %s", request.Status)
	}

	if err := s.makeupRepo.SetStatus(ctx, requestID, status, notes, adminID); err != nil {
		return err
	}

	if status == RequestApproved {
		day, _ := time.Parse("2006-01-02", request.Date)
		attendance := &models.Attendance{
			UserID:      request.UserID,
			ClockInTime: day,
			Status:      StatusMakeup,
			Method:      "makeup",
			Reason:      request.Reason,
			ApprovedBy:  adminID,
			CreatedDate: day,
		}
		if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
			return fmt.Errorf("failed to create makeup attendance: %w", err)
		}
		log.Printf("✅ Make-up request %s approved, attendance recorded for %s", requestID, request.Date)
	}

	if profile, err := s.profileRepo.GetByID(ctx, request.UserID); err == nil && profile.TelegramChatID != 0 {
		s.botNotifier.SendPersonalNotification(profile.TelegramChatID,
			fmt.Sprintf("📋 Your make-up request for `%s` was *%s*", request.Date, status))
	}

	return nil
}
