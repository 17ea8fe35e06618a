// Package handlers provides HTTP handlers for API endpoints
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"absensi-guard/internal/location"
	"absensi-guard/internal/models"
	"absensi-guard/internal/services"

	"github.com/google/uuid"
)

// ClockService defines the attendance operations used by the handlers
type ClockService interface {
	ClockIn(ctx context.Context, req *services.ClockRequest) (*services.ClockResult, error)
	ClockOut(ctx context.Context, req *services.ClockRequest) (*services.ClockResult, error)
	SecureLocation(ctx context.Context, req *services.ClockRequest) (*models.SecureLocationResult, error)
	ClearHistory(ctx context.Context, clientID string) error
}

// AttendanceHandler handles clock-in/clock-out requests
type AttendanceHandler struct {
	service ClockService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(service ClockService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// clockPayload is the request body shared by the clock endpoints. Browsers
// run geolocation acquisition themselves and submit either a position or
// the failure kind.
type clockPayload struct {
	UserID      string                    `json:"user_id"`
	ShiftID     string                    `json:"shift_id"`
	ClientID    string                    `json:"client_id"`
	PhotoURL    string                    `json:"photo_url"`
	Position    *models.GeoReading        `json:"position"`
	ErrorKind   string                    `json:"error_kind"`
	Device      models.DeviceInfo         `json:"device"`
	Environment models.EnvironmentSignals `json:"environment"`
	Confirmed   bool                      `json:"confirmed"`
}

func (p *clockPayload) toRequest() *services.ClockRequest {
	clientID := p.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	return &services.ClockRequest{
		UserID:    p.UserID,
		ShiftID:   p.ShiftID,
		ClientID:  clientID,
		PhotoURL:  p.PhotoURL,
		Reading:   p.Position,
		ErrorKind: p.ErrorKind,
		Device:    p.Device,
		Env:       p.Environment,
		Confirmed: p.Confirmed,
	}
}

// HandleClockIn processes clock-in requests
func (h *AttendanceHandler) HandleClockIn(w http.ResponseWriter, r *http.Request) {
	h.handleClock(w, r, h.service.ClockIn)
}

// HandleClockOut processes clock-out requests
func (h *AttendanceHandler) HandleClockOut(w http.ResponseWriter, r *http.Request) {
	h.handleClock(w, r, h.service.ClockOut)
}

func (h *AttendanceHandler) handleClock(w http.ResponseWriter, r *http.Request, clock func(context.Context, *services.ClockRequest) (*services.ClockResult, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload clockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	result, err := clock(r.Context(), payload.toRequest())
	if err != nil {
		writeClockError(w, err)
		return
	}

	writeJSON(w, clockStatusCode(result), result)
}

// HandleValidate runs the secure location pipeline without recording
// anything, so clients can preview the risk assessment.
func (h *AttendanceHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload clockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.SecureLocation(r.Context(), payload.toRequest())
	if err != nil {
		writeClockError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleClearHistory empties the retained location history for a client
// (privacy operation).
func (h *AttendanceHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		http.Error(w, "client_id is required", http.StatusBadRequest)
		return
	}

	if err := h.service.ClearHistory(r.Context(), clientID); err != nil {
		log.Printf("Error clearing location history: %v", err)
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// clockStatusCode maps the structured outcome to an HTTP status: rejections
// and confirmation requests are responses, not server errors.
func clockStatusCode(result *services.ClockResult) int {
	switch result.Outcome {
	case services.OutcomeConfirmRequired:
		return http.StatusConflict
	case services.OutcomeRejected:
		return http.StatusForbidden
	}
	return http.StatusOK
}

// writeClockError distinguishes capability errors (reported with their
// kind) from internal failures.
func writeClockError(w http.ResponseWriter, err error) {
	if kind := location.KindOf(err); kind != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      err.Error(),
			"error_kind": kind,
		})
		return
	}

	log.Printf("Error processing clock request: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
