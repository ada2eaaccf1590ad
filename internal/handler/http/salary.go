package http

import (
	"encoding/json"
	"net/http"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
	"github.com/sitecrew/siteworks-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// Create implements SalaryHandler.
func (h *salaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary structure created", result)
}

func userProjectQuery(w http.ResponseWriter, r *http.Request) (userID, projectID string, ok bool) {
	userID = r.URL.Query().Get("user_id")
	projectID = r.URL.Query().Get("project_id")
	if userID == "" || projectID == "" {
		response.BadRequest(w, "Query parameters 'user_id' and 'project_id' are required", nil)
		return "", "", false
	}
	return userID, projectID, true
}

// GetActive implements SalaryHandler.
func (h *salaryHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := userProjectQuery(w, r)
	if !ok {
		return
	}

	result, err := h.salaryService.GetActive(r.Context(), userID, projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements SalaryHandler.
func (h *salaryHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := userProjectQuery(w, r)
	if !ok {
		return
	}

	result, err := h.salaryService.History(r.Context(), userID, projectID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
