package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"absensi-guard/internal/models"
	"absensi-guard/internal/repository"
)

// ReportService produces admin attendance reports.
type ReportService struct {
	attendanceRepo repository.AttendanceRepository
}

// NewReportService creates a new report service
func NewReportService(attendanceRepo repository.AttendanceRepository) *ReportService {
	return &ReportService{attendanceRepo: attendanceRepo}
}

var reportHeader = []string{
	"date", "user_id", "shift_id", "clock_in", "clock_out",
	"status", "method", "location", "risk_level",
}

// WriteCSV streams attendance records for a date range as CSV.
func (s *ReportService) WriteCSV(ctx context.Context, w io.Writer, from, to string) error {
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return fmt.Errorf("invalid from date: %w", err)
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return fmt.Errorf("invalid to date: %w", err)
	}

	records, err := s.attendanceRepo.ListRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}

	for _, record := range records {
		if err := writer.Write(reportRow(record)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func reportRow(record models.Attendance) []string {
	clockOut := ""
	if record.ClockOutTime != nil {
		clockOut = record.ClockOutTime.Format(time.RFC3339)
	}
	return []string{
		record.CreatedDate.Format("2006-01-02"),
		record.UserID,
		record.ShiftID,
		record.ClockInTime.Format(time.RFC3339),
		clockOut,
		record.Status,
		record.Method,
		record.Location,
		record.RiskLevel,
	}
}
