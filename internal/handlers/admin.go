package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"absensi-guard/internal/models"
)

// Reporter defines the reporting operations used by the admin handlers
type Reporter interface {
	WriteCSV(ctx context.Context, w io.Writer, from, to string) error
}

// MakeupProcessor defines the make-up request operations used by the
// admin handlers
type MakeupProcessor interface {
	Submit(ctx context.Context, request *models.MakeupRequest) error
	ListPending(ctx context.Context) ([]models.MakeupRequest, error)
	Decide(ctx context.Context, requestID, status, notes, adminID string) error
}

// AdminHandler handles reporting and make-up request endpoints
type AdminHandler struct {
	reports Reporter
	makeup  MakeupProcessor
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reports Reporter, makeup MakeupProcessor) *AdminHandler {
	return &AdminHandler{reports: reports, makeup: makeup}
}

// HandleReport streams an attendance CSV for a date range
func (h *AdminHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	today := time.Now().Format("2006-01-02")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s_%s.csv", from, to))

	if err := h.reports.WriteCSV(r.Context(), w, from, to); err != nil {
		log.Printf("Error writing report: %v", err)
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
	}
}

// HandleMakeupRequests serves POST (submit) and GET (list pending) on the
// make-up requests collection endpoint
func (h *AdminHandler) HandleMakeupRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitMakeup(w, r)
	case http.MethodGet:
		h.listMakeup(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) submitMakeup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID      string `json:"user_id"`
		Date        string `json:"date"`
		Reason      string `json:"reason"`
		EvidenceURL string `json:"evidence_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	request := &models.MakeupRequest{
		UserID:      payload.UserID,
		Date:        payload.Date,
		Reason:      payload.Reason,
		EvidenceURL: payload.EvidenceURL,
	}
	if err := h.makeup.Submit(r.Context(), request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *AdminHandler) listMakeup(w http.ResponseWriter, r *http.Request) {
	requests, err := h.makeup.ListPending(r.Context())
	if err != nil {
		log.Printf("Error listing makeup requests: %v", err)
		http.Error(w, "Failed to list requests", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleMakeupDecision applies an admin decision:
// PATCH /api/makeup-requests/{id}
func (h *AdminHandler) HandleMakeupDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := strings.TrimPrefix(r.URL.Path, "/api/makeup-requests/")
	if requestID == "" || strings.Contains(requestID, "/") {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
		AdminID    string `json:"admin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.makeup.Decide(r.Context(), requestID, payload.Status, payload.AdminNotes, payload.AdminID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": requestID, "status": payload.Status})
}
