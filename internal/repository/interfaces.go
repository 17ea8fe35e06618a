// Package repository defines repository interfaces for data access
package repository

import (
	"context"

	"absensi-guard/internal/models"
)

// ProfileRepository defines the interface for user profile data access
type ProfileRepository interface {
	// GetByID retrieves a profile by its record ID
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetByTelegramChat retrieves a profile by its Telegram chat ID
	GetByTelegramChat(ctx context.Context, chatID int64) (*models.Profile, error)
}

// ShiftRepository defines the interface for shift configuration access
type ShiftRepository interface {
	// GetByID retrieves a shift by its record ID
	GetByID(ctx context.Context, id string) (*models.Shift, error)
	// GetActive lists active shifts
	GetActive(ctx context.Context) ([]models.Shift, error)
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create records a new attendance entry
	Create(ctx context.Context, attendance *models.Attendance) error
	// GetTodayByUser returns today's attendance record for a user, or nil
	GetTodayByUser(ctx context.Context, userID string) (*models.Attendance, error)
	// SetClockOut closes an open attendance record
	SetClockOut(ctx context.Context, attendance *models.Attendance) error
	// ListRange lists attendance records between two dates (inclusive)
	ListRange(ctx context.Context, from, to string) ([]models.Attendance, error)
}

// LocationRepository defines the interface for valid location configuration
type LocationRepository interface {
	// GetActive lists the active valid locations
	GetActive(ctx context.Context) ([]models.ValidLocation, error)
}

// MakeupRepository defines the interface for make-up request data access
type MakeupRepository interface {
	// Create saves a new make-up request
	Create(ctx context.Context, request *models.MakeupRequest) error
	// GetByID retrieves a make-up request
	GetByID(ctx context.Context, id string) (*models.MakeupRequest, error)
	// ListPending lists requests awaiting an admin decision
	ListPending(ctx context.Context) ([]models.MakeupRequest, error)
	// SetStatus records an admin decision on a request
	SetStatus(ctx context.Context, id, status, notes, approvedBy string) error
}
