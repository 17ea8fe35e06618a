package services

import (
	"context"
	"testing"
	"time"

	"absensi-guard/internal/models"
)

type mockMakeupRepo struct {
	requests map[string]*models.MakeupRequest
	created  []*models.MakeupRequest
	statusID string
	status   string
}

func (m *mockMakeupRepo) Create(ctx context.Context, request *models.MakeupRequest) error {
	m.created = append(m.created, request)
	return nil
}

func (m *mockMakeupRepo) GetByID(ctx context.Context, id string) (*models.MakeupRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, context.Canceled
}

func (m *mockMakeupRepo) ListPending(ctx context.Context) ([]models.MakeupRequest, error) {
	var pending []models.MakeupRequest
	for _, r := range m.requests {
		if r.Status == RequestPending {
			pending = append(pending, *r)
		}
	}
	return pending, nil
}

func (m *mockMakeupRepo) SetStatus(ctx context.Context, id, status, notes, approvedBy string) error {
	m.statusID = id
	m.status = status
	return nil
}

func newMakeupFixture() (*MakeupService, *mockMakeupRepo, *mockAttendanceRepo, *mockNotifier) {
	makeupRepo := &mockMakeupRepo{requests: map[string]*models.MakeupRequest{}}
	attendanceRepo := &mockAttendanceRepo{}
	notifier := &mockNotifier{}
	profileRepo := &mockProfileRepo{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1", Name: "Somchai", TelegramChatID: 12345},
	}}

	service := NewMakeupService(makeupRepo, attendanceRepo, profileRepo, notifier)
	return service, makeupRepo, attendanceRepo, notifier
}

func TestSubmitMakeupRequest(t *testing.T) {
	service, repo, _, notifier := newMakeupFixture()

	request := &models.MakeupRequest{
		UserID: "user-1", Date: "2026-03-09", Reason: "hospital visit",
	}
	if err := service.Submit(context.Background(), request); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one created request, got %d", len(repo.created))
	}
	if len(notifier.adminMessages) != 1 {
		t.Errorf("expected an admin notification, got %d", len(notifier.adminMessages))
	}
}

func TestSubmitMakeupRequestValidation(t *testing.T) {
	service, repo, _, _ := newMakeupFixture()

	tests := []struct {
		name    string
		request *models.MakeupRequest
	}{
		{"missing user", &models.MakeupRequest{Date: "2026-03-09", Reason: "sick"}},
		{"missing date", &models.MakeupRequest{UserID: "user-1", Reason: "sick"}},
		{"missing reason", &models.MakeupRequest{UserID: "user-1", Date: "2026-03-09"}},
		{"malformed date", &models.MakeupRequest{UserID: "user-1", Date: "09/03/2026", Reason: "sick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := service.Submit(context.Background(), tt.request); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if len(repo.created) != 0 {
		t.Errorf("invalid requests must not be stored, got %d", len(repo.created))
	}
}

func TestDecideApprovalCreatesAttendance(t *testing.T) {
	service, makeupRepo, attendanceRepo, notifier := newMakeupFixture()
	makeupRepo.requests["req-1"] = &models.MakeupRequest{
		ID: "req-1", UserID: "user-1", Date: "2026-03-09",
		Reason: "hospital visit", Status: RequestPending,
	}

	if err := service.Decide(context.Background(), "req-1", RequestApproved, "verified", "admin-1"); err != nil {
		t.Fatalf("Decide() error: %v", err)
	}

	if makeupRepo.status != RequestApproved {
		t.Errorf("status = %s, want %s", makeupRepo.status, RequestApproved)
	}
	if len(attendanceRepo.created) != 1 {
		t.Fatalf("expected a makeup attendance record, got %d", len(attendanceRepo.created))
	}

	created := attendanceRepo.created[0]
	if created.Status != StatusMakeup || created.Method != "makeup" {
		t.Errorf("unexpected attendance: status=%s method=%s", created.Status, created.Method)
	}
	if created.ApprovedBy != "admin-1" {
		t.Errorf("ApprovedBy = %s, want admin-1", created.ApprovedBy)
	}
	wantDay := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !created.ClockInTime.Equal(wantDay) {
		t.Errorf("ClockInTime = %v, want %v", created.ClockInTime, wantDay)
	}
	if len(notifier.personalMessages) != 1 {
		t.Errorf("expected a personal notification, got %d", len(notifier.personalMessages))
	}
}

func TestDecideRejectionSkipsAttendance(t *testing.T) {
	service, makeupRepo, attendanceRepo, _ := newMakeupFixture()
	makeupRepo.requests["req-1"] = &models.MakeupRequest{
		ID: "req-1", UserID: "user-1", Date: "2026-03-09",
		Reason: "hospital visit", Status: RequestPending,
	}

	if err := service.Decide(context.Background(), "req-1", RequestRejected, "no evidence", "admin-1"); err != nil {
		t.Fatalf("Decide() error: %v", err)
	}
	if len(attendanceRepo.created) != 0 {
		t.Errorf("rejection must not create attendance, got %d records", len(attendanceRepo.created))
	}
}

func TestDecideGuards(t *testing.T) {
	service, makeupRepo, _, _ := newMakeupFixture()
	makeupRepo.requests["req-done"] = &models.MakeupRequest{
		ID: "req-done", UserID: "user-1", Date: "2026-03-09",
		Reason: "sick", Status: RequestApproved,
	}

	if err := service.Decide(context.Background(), "req-done", RequestApproved, "", "admin-1"); err == nil {
		t.Error("expected error for already-decided request")
	}
	if err := service.Decide(context.Background(), "req-done", "maybe", "", "admin-1"); err == nil {
		t.Error("expected error for invalid decision status")
	}
}
