package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	GetMyEntries(w http.ResponseWriter, r *http.Request)
	GetEntries(w http.ResponseWriter, r *http.Request)
	GetMySummary(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetWorkingTime(w http.ResponseWriter, r *http.Request)
	InsertEntry(w http.ResponseWriter, r *http.Request)
	UpdateEntry(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Submit implements AttendanceHandler. The body is multipart: a JSON
// 'data' field plus a 'photo' file.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitEntryRequest

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Attendance proof photo is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req.File = file
	req.FileHeader = fileHeader

	result, err := h.attendanceService.SubmitEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance recorded", result)
}

// GetMyEntries implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyEntries(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		response.BadRequest(w, "Query parameter 'project_id' is required", nil)
		return
	}

	result, err := h.attendanceService.GetMyEntries(r.Context(), projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *attendanceHandlerImpl) GetEntries(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	projectID := r.URL.Query().Get("project_id")
	if userID == "" || projectID == "" {
		response.BadRequest(w, "Query parameters 'user_id' and 'project_id' are required", nil)
		return
	}

	result, err := h.attendanceService.GetEntries(r.Context(), userID, projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func parsePeriodQuery(r *http.Request) (start, end time.Time, ok bool) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("period_start"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse("2006-01-02", r.URL.Query().Get("period_end"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	// The end date is inclusive.
	return start.UTC(), end.UTC().Add(24*time.Hour - time.Second), true
}

// GetMySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}
	userID, _ := claims["user_id"].(string)

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		response.BadRequest(w, "Query parameter 'project_id' is required", nil)
		return
	}

	start, end, ok := parsePeriodQuery(r)
	if !ok {
		response.BadRequest(w, "period_start and period_end must be YYYY-MM-DD dates", nil)
		return
	}

	result, err := h.attendanceService.GetAttendanceSummary(r.Context(), userID, projectID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, mapSummary(result))
}

// GetSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	projectID := r.URL.Query().Get("project_id")
	if userID == "" || projectID == "" {
		response.BadRequest(w, "Query parameters 'user_id' and 'project_id' are required", nil)
		return
	}

	start, end, ok := parsePeriodQuery(r)
	if !ok {
		response.BadRequest(w, "period_start and period_end must be YYYY-MM-DD dates", nil)
		return
	}

	result, err := h.attendanceService.GetAttendanceSummary(r.Context(), userID, projectID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, mapSummary(result))
}

// GetWorkingTime implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetWorkingTime(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	projectID := r.URL.Query().Get("project_id")
	if userID == "" || projectID == "" {
		response.BadRequest(w, "Query parameters 'user_id' and 'project_id' are required", nil)
		return
	}

	start, end, ok := parsePeriodQuery(r)
	if !ok {
		response.BadRequest(w, "period_start and period_end must be YYYY-MM-DD dates", nil)
		return
	}

	result, err := h.attendanceService.GetWorkingTime(r.Context(), userID, projectID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// InsertEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) InsertEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.InsertEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.InsertEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance entry inserted", result)
}

// UpdateEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EntryID = chi.URLParam(r, "entryID")

	result, err := h.attendanceService.UpdateEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// DeleteEntry implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteEntry(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance entry deleted", nil)
}

func mapSummary(s attendance.Summary) attendance.SummaryResponse {
	days := make([]attendance.DaySummaryResponse, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, attendance.DaySummaryResponse{
			Date:     d.Date.Format("2006-01-02"),
			CheckIn:  d.CheckIn.Format(time.RFC3339),
			CheckOut: d.CheckOut.Format(time.RFC3339),
			Minutes:  d.Minutes,
			Hours:    d.Hours,
		})
	}

	return attendance.SummaryResponse{
		UserID:           s.UserID,
		ProjectID:        s.ProjectID,
		PeriodStart:      s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        s.PeriodEnd.Format("2006-01-02"),
		TotalWorkingDays: s.TotalWorkingDays,
		PresentDays:      s.PresentDays,
		AbsentDays:       s.AbsentDays,
		TotalMinutes:     s.TotalMinutes,
		TotalHours:       s.TotalHours,
		Days:             days,
	}
}
