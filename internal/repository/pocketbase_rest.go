// Package repository provides PocketBase REST API implementations
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"absensi-guard/internal/models"
)

// restClient carries the shared PocketBase connection settings.
type restClient struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

func newRESTClient(baseURL, authToken string) restClient {
	return restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *restClient) addAuthHeader(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}
}

// getJSON issues a GET and decodes the response body into out.
func (c *restClient) getJSON(ctx context.Context, apiURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return err
	}
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s - %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// sendJSON issues a POST or PATCH with a JSON body and decodes the response
// into out when out is non-nil.
func (c *restClient) sendJSON(ctx context.Context, method, apiURL string, payload interface{}, out interface{}) error {
	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, method, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s - %s", resp.Status, string(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *restClient) listURL(collection, filter, extra string) string {
	apiURL := fmt.Sprintf("%s/api/collections/%s/records", c.baseURL, collection)
	params := []string{}
	if filter != "" {
		params = append(params, "filter="+url.QueryEscape(filter))
	}
	if extra != "" {
		params = append(params, extra)
	}
	if len(params) > 0 {
		apiURL += "?" + strings.Join(params, "&")
	}
	return apiURL
}

// PocketBaseRESTProfileRepository implements ProfileRepository
type PocketBaseRESTProfileRepository struct {
	restClient
}

// NewPocketBaseRESTProfileRepository creates repository
func NewPocketBaseRESTProfileRepository(baseURL, authToken string) *PocketBaseRESTProfileRepository {
	return &PocketBaseRESTProfileRepository{newRESTClient(baseURL, authToken)}
}

type profileRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

func (rec profileRecord) toModel() *models.Profile {
	return &models.Profile{
		ID:             rec.ID,
		Name:           rec.Name,
		Role:           rec.Role,
		TelegramChatID: rec.TelegramChatID,
	}
}

func (r *PocketBaseRESTProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	apiURL := fmt.Sprintf("%s/api/collections/profiles/records/%s", r.baseURL, id)

	var rec profileRecord
	if err := r.getJSON(ctx, apiURL, &rec); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return rec.toModel(), nil
}

func (r *PocketBaseRESTProfileRepository) GetByTelegramChat(ctx context.Context, chatID int64) (*models.Profile, error) {
	filter := fmt.Sprintf("telegram_chat_id=%d", chatID)
	apiURL := r.listURL("profiles", filter, "limit=1")

	var result struct {
		Items []profileRecord `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("profile not found")
	}
	return result.Items[0].toModel(), nil
}

// PocketBaseRESTShiftRepository implements ShiftRepository
type PocketBaseRESTShiftRepository struct {
	restClient
}

func NewPocketBaseRESTShiftRepository(baseURL, authToken string) *PocketBaseRESTShiftRepository {
	return &PocketBaseRESTShiftRepository{newRESTClient(baseURL, authToken)}
}

type shiftRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	DayType   string `json:"day_type"`
	Active    bool   `json:"active"`
}

func (rec shiftRecord) toModel() models.Shift {
	return models.Shift{
		ID:        rec.ID,
		Name:      rec.Name,
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		DayType:   rec.DayType,
		Active:    rec.Active,
	}
}

func (r *PocketBaseRESTShiftRepository) GetByID(ctx context.Context, id string) (*models.Shift, error) {
	apiURL := fmt.Sprintf("%s/api/collections/shifts/records/%s", r.baseURL, id)

	var rec shiftRecord
	if err := r.getJSON(ctx, apiURL, &rec); err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	shift := rec.toModel()
	return &shift, nil
}

func (r *PocketBaseRESTShiftRepository) GetActive(ctx context.Context) ([]models.Shift, error) {
	apiURL := r.listURL("shifts", "active=true", "sort=start_time")

	var result struct {
		Items []shiftRecord `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}

	shifts := make([]models.Shift, 0, len(result.Items))
	for _, item := range result.Items {
		shifts = append(shifts, item.toModel())
	}
	return shifts, nil
}

// PocketBaseRESTAttendanceRepository implements AttendanceRepository
type PocketBaseRESTAttendanceRepository struct {
	restClient
}

func NewPocketBaseRESTAttendanceRepository(baseURL, authToken string) *PocketBaseRESTAttendanceRepository {
	return &PocketBaseRESTAttendanceRepository{newRESTClient(baseURL, authToken)}
}

type attendanceRecord struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	ShiftID           string `json:"shift_id"`
	ClockInTime       string `json:"clock_in_time"`
	Status            string `json:"status"`
	Method            string `json:"method"`
	Location          string `json:"location"`
	PhotoURL          string `json:"photo_url"`
	SecurityData      string `json:"security_data"`
	RiskLevel         string `json:"risk_level"`
	DeviceFingerprint string `json:"device_fingerprint"`
	ClockOutTime      string `json:"clock_out_time"`
	ClockOutLocation  string `json:"clock_out_location"`
	ClockOutSecurity  string `json:"clock_out_security"`
	IsClockedOut      bool   `json:"is_clocked_out"`
	Reason            string `json:"reason"`
	ApprovedBy        string `json:"approved_by"`
	CreatedDate       string `json:"created_date"`
}

func (rec attendanceRecord) toModel() models.Attendance {
	att := models.Attendance{
		ID:                rec.ID,
		UserID:            rec.UserID,
		ShiftID:           rec.ShiftID,
		Status:            rec.Status,
		Method:            rec.Method,
		Location:          rec.Location,
		PhotoURL:          rec.PhotoURL,
		SecurityData:      rec.SecurityData,
		RiskLevel:         rec.RiskLevel,
		DeviceFingerprint: rec.DeviceFingerprint,
		ClockOutLocation:  rec.ClockOutLocation,
		ClockOutSecurity:  rec.ClockOutSecurity,
		IsClockedOut:      rec.IsClockedOut,
		Reason:            rec.Reason,
		ApprovedBy:        rec.ApprovedBy,
	}
	if t, err := time.Parse(time.RFC3339, rec.ClockInTime); err == nil {
		att.ClockInTime = t
	}
	if rec.ClockOutTime != "" {
		if t, err := time.Parse(time.RFC3339, rec.ClockOutTime); err == nil {
			att.ClockOutTime = &t
		}
	}
	if t, err := time.Parse("2006-01-02", rec.CreatedDate); err == nil {
		att.CreatedDate = t
	}
	return att
}

func (r *PocketBaseRESTAttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	apiURL := fmt.Sprintf("%s/api/collections/attendance/records", r.baseURL)

	data := map[string]interface{}{
		"user_id":            attendance.UserID,
		"shift_id":           attendance.ShiftID,
		"clock_in_time":      attendance.ClockInTime.Format(time.RFC3339),
		"status":             attendance.Status,
		"method":             attendance.Method,
		"location":           attendance.Location,
		"photo_url":          attendance.PhotoURL,
		"security_data":      attendance.SecurityData,
		"risk_level":         attendance.RiskLevel,
		"device_fingerprint": attendance.DeviceFingerprint,
		"is_clocked_out":     false,
		"reason":             attendance.Reason,
		"approved_by":        attendance.ApprovedBy,
		"created_date":       attendance.CreatedDate.Format("2006-01-02"),
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := r.sendJSON(ctx, "POST", apiURL, data, &result); err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}

	attendance.ID = result.ID
	return nil
}

func (r *PocketBaseRESTAttendanceRepository) GetTodayByUser(ctx context.Context, userID string) (*models.Attendance, error) {
	today := time.Now().Format("2006-01-02")
	filter := fmt.Sprintf("user_id='%s' && created_date='%s'", userID, today)
	apiURL := r.listURL("attendance", filter, "sort=-clock_in_time&limit=1")

	var result struct {
		Items []attendanceRecord `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	att := result.Items[0].toModel()
	return &att, nil
}

func (r *PocketBaseRESTAttendanceRepository) SetClockOut(ctx context.Context, attendance *models.Attendance) error {
	apiURL := fmt.Sprintf("%s/api/collections/attendance/records/%s", r.baseURL, attendance.ID)

	data := map[string]interface{}{
		"clock_out_time":     attendance.ClockOutTime.Format(time.RFC3339),
		"clock_out_location": attendance.ClockOutLocation,
		"clock_out_security": attendance.ClockOutSecurity,
		"is_clocked_out":     true,
	}

	if err := r.sendJSON(ctx, "PATCH", apiURL, data, nil); err != nil {
		return fmt.Errorf("failed to record clock-out: %w", err)
	}
	return nil
}

func (r *PocketBaseRESTAttendanceRepository) ListRange(ctx context.Context, from, to string) ([]models.Attendance, error) {
	filter := fmt.Sprintf("created_date>='%s' && created_date<='%s'", from, to)
	apiURL := r.listURL("attendance", filter, "sort=created_date&perPage=500")

	var result struct {
		Items []attendanceRecord `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}

	records := make([]models.Attendance, 0, len(result.Items))
	for _, item := range result.Items {
		records = append(records, item.toModel())
	}
	return records, nil
}

// PocketBaseRESTLocationRepository implements LocationRepository
type PocketBaseRESTLocationRepository struct {
	restClient
}

func NewPocketBaseRESTLocationRepository(baseURL, authToken string) *PocketBaseRESTLocationRepository {
	return &PocketBaseRESTLocationRepository{newRESTClient(baseURL, authToken)}
}

func (r *PocketBaseRESTLocationRepository) GetActive(ctx context.Context) ([]models.ValidLocation, error) {
	apiURL := r.listURL("valid_locations", "active=true", "perPage=200")

	var result struct {
		Items []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			RadiusMeter float64 `json:"radius_meter"`
			Active      bool    `json:"active"`
		} `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}

	locations := make([]models.ValidLocation, 0, len(result.Items))
	for _, item := range result.Items {
		locations = append(locations, models.ValidLocation{
			ID:          item.ID,
			Name:        item.Name,
			Latitude:    item.Latitude,
			Longitude:   item.Longitude,
			RadiusMeter: item.RadiusMeter,
			Active:      item.Active,
		})
	}
	return locations, nil
}

// PocketBaseRESTMakeupRepository implements MakeupRepository
type PocketBaseRESTMakeupRepository struct {
	restClient
}

func NewPocketBaseRESTMakeupRepository(baseURL, authToken string) *PocketBaseRESTMakeupRepository {
	return &PocketBaseRESTMakeupRepository{newRESTClient(baseURL, authToken)}
}

type makeupRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Date        string `json:"date"`
	Reason      string `json:"reason"`
	EvidenceURL string `json:"evidence_url"`
	Status      string `json:"status"`
	AdminNotes  string `json:"admin_notes"`
	ApprovedBy  string `json:"approved_by"`
	Created     string `json:"created"`
}

func (rec makeupRecord) toModel() models.MakeupRequest {
	request := models.MakeupRequest{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Date:        rec.Date,
		Reason:      rec.Reason,
		EvidenceURL: rec.EvidenceURL,
		Status:      rec.Status,
		AdminNotes:  rec.AdminNotes,
		ApprovedBy:  rec.ApprovedBy,
	}
	if t, err := time.Parse(time.RFC3339, rec.Created); err == nil {
		request.CreatedAt = t
	}
	return request
}

func (r *PocketBaseRESTMakeupRepository) Create(ctx context.Context, request *models.MakeupRequest) error {
	apiURL := fmt.Sprintf("%s/api/collections/makeup_requests/records", r.baseURL)

	data := map[string]interface{}{
		"user_id":      request.UserID,
		"date":         request.Date,
		"reason":       request.Reason,
		"evidence_url": request.EvidenceURL,
		"status":       "pending",
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := r.sendJSON(ctx, "POST", apiURL, data, &result); err != nil {
		return fmt.Errorf("failed to create makeup request: %w", err)
	}

	request.ID = result.ID
	request.Status = "pending"
	return nil
}

func (r *PocketBaseRESTMakeupRepository) GetByID(ctx context.Context, id string) (*models.MakeupRequest, error) {
	apiURL := fmt.Sprintf("%s/api/collections/makeup_requests/records/%s", r.baseURL, id)

	var rec makeupRecord
	if err := r.getJSON(ctx, apiURL, &rec); err != nil {
		return nil, fmt.Errorf("failed to get makeup request: %w", err)
	}
	request := rec.toModel()
	return &request, nil
}

func (r *PocketBaseRESTMakeupRepository) ListPending(ctx context.Context) ([]models.MakeupRequest, error) {
	apiURL := r.listURL("makeup_requests", "status='pending'", "sort=created")

	var result struct {
		Items []makeupRecord `json:"items"`
	}
	if err := r.getJSON(ctx, apiURL, &result); err != nil {
		return nil, err
	}

	requests := make([]models.MakeupRequest, 0, len(result.Items))
	for _, item := range result.Items {
		requests = append(requests, item.toModel())
	}
	return requests, nil
}

func (r *PocketBaseRESTMakeupRepository) SetStatus(ctx context.Context, id, status, notes, approvedBy string) error {
	apiURL := fmt.Sprintf("%s/api/collections/makeup_requests/records/%s", r.baseURL, id)

	data := map[string]interface{}{
		"status":      status,
		"admin_notes": notes,
		"approved_by": approvedBy,
	}

	if err := r.sendJSON(ctx, "PATCH", apiURL, data, nil); err != nil {
		return fmt.Errorf("failed to update makeup request: %w", err)
	}
	return nil
}
