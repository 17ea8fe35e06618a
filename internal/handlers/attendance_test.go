package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"absensi-guard/internal/location"
	"absensi-guard/internal/models"
	"absensi-guard/internal/services"
)

type mockClockService struct {
	result    *services.ClockResult
	secure    *models.SecureLocationResult
	err       error
	lastReq   *services.ClockRequest
	clearedID string
	clearErr  error
}

func (m *mockClockService) ClockIn(ctx context.Context, req *services.ClockRequest) (*services.ClockResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func (m *mockClockService) ClockOut(ctx context.Context, req *services.ClockRequest) (*services.ClockResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func (m *mockClockService) SecureLocation(ctx context.Context, req *services.ClockRequest) (*models.SecureLocationResult, error) {
	m.lastReq = req
	return m.secure, m.err
}

func (m *mockClockService) ClearHistory(ctx context.Context, clientID string) error {
	m.clearedID = clientID
	return m.clearErr
}

const cleanBody = `{
	"user_id": "user-1",
	"shift_id": "shift-1",
	"client_id": "client-1",
	"position": {"latitude": 13.7563, "longitude": 100.5018, "accuracy": 12, "timestamp": 1770000000000}
}`

func TestHandleClockIn(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		result     *services.ClockResult
		err        error
		wantStatus int
	}{
		{
			name:   "recorded",
			method: http.MethodPost,
			body:   cleanBody,
			result: &services.ClockResult{
				Outcome: services.OutcomeRecorded,
				Status:  services.StatusOnTime,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "confirmation required",
			method: http.MethodPost,
			body:   cleanBody,
			result: &services.ClockResult{
				Outcome: services.OutcomeConfirmRequired,
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "rejected",
			method: http.MethodPost,
			body:   cleanBody,
			result: &services.ClockResult{
				Outcome: services.OutcomeRejected,
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "permission denied maps to bad request",
			method:     http.MethodPost,
			body:       cleanBody,
			err:        location.ErrPermissionDenied,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing user_id",
			method:     http.MethodPost,
			body:       `{"shift_id": "shift-1"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockClockService{result: tt.result, err: tt.err}
			handler := NewAttendanceHandler(service)

			req := httptest.NewRequest(tt.method, "/api/attendance/clock-in", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleClockIn(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandleClockInCapabilityErrorBody(t *testing.T) {
	service := &mockClockService{err: location.ErrGeolocationTimeout}
	handler := NewAttendanceHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/attendance/clock-in", strings.NewReader(cleanBody))
	rec := httptest.NewRecorder()
	handler.HandleClockIn(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["error_kind"] != location.KindTimeout {
		t.Errorf("error_kind = %q, want %q", body["error_kind"], location.KindTimeout)
	}
}

func TestHandleClockInGeneratesClientID(t *testing.T) {
	service := &mockClockService{result: &services.ClockResult{Outcome: services.OutcomeRecorded}}
	handler := NewAttendanceHandler(service)

	body := `{"user_id": "user-1", "shift_id": "shift-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/clock-in", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleClockIn(rec, req)

	if service.lastReq == nil {
		t.Fatal("service not invoked")
	}
	if service.lastReq.ClientID == "" {
		t.Error("expected a generated client ID for requests without one")
	}
}

func TestHandleValidate(t *testing.T) {
	secure := &models.SecureLocationResult{
		Validation: models.ValidationResult{
			IsValid: true, Confidence: 100, RiskLevel: models.RiskLow,
		},
		IsSecure: true,
	}
	service := &mockClockService{secure: secure}
	handler := NewAttendanceHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/location/validate", strings.NewReader(cleanBody))
	rec := httptest.NewRecorder()
	handler.HandleValidate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got models.SecureLocationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !got.IsSecure || got.Validation.Confidence != 100 {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandleClearHistory(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantID     string
	}{
		{
			name:       "cleared",
			method:     http.MethodDelete,
			target:     "/api/location/history?client_id=client-9",
			wantStatus: http.StatusNoContent,
			wantID:     "client-9",
		},
		{
			name:       "missing client_id",
			method:     http.MethodDelete,
			target:     "/api/location/history",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			target:     "/api/location/history?client_id=client-9",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockClockService{}
			handler := NewAttendanceHandler(service)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			handler.HandleClearHistory(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if service.clearedID != tt.wantID {
				t.Errorf("cleared client = %q, want %q", service.clearedID, tt.wantID)
			}
		})
	}
}
