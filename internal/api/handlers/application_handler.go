package handlers

import (
	"net/http"

	"github.com/tokarboss/manager-ya/internal/api/dto"
	"github.com/tokarboss/manager-ya/internal/service"
)

// ApplicationHandler обрабатывает HTTP-запросы, связанные с заявками.
type ApplicationHandler struct {
	ApplicationService *service.ApplicationService
	DefaultLimit       int
}

// NewApplicationHandler возвращает новый ApplicationHandler.
func NewApplicationHandler(applicationService *service.ApplicationService, defaultLimit int) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: applicationService, DefaultLimit: defaultLimit}
}

// List - GET /applications?limit=N
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, h.DefaultLimit)
	if !ok {
		return
	}

	views, appErr := h.ApplicationService.ListRecent(r.Context(), limit)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"applications": dto.FromStorageViews(views),
	})
}

// Submit - POST /applications
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, appErr := h.ApplicationService.Submit(r.Context(), req.ToStorage())
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	resp := dto.SubmitResponse{Application: dto.FromStorageApplication(res.Application)}
	if res.Manager != nil {
		load := dto.FromStorageLoad(*res.Manager)
		resp.Manager = &load
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Assign - POST /applications/{id}/assign
func (h *ApplicationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ManagerID <= 0 {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "manager_id is required")
		return
	}

	app, appErr := h.ApplicationService.AssignManually(r.Context(), id, req.ManagerID)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"application": dto.FromStorageApplication(app),
	})
}

// Outcome - POST /applications/{id}/outcome
func (h *ApplicationHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.OutcomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, appErr := service.ParseOutcome(req.Outcome)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	app, appErr := h.ApplicationService.SetOutcome(r.Context(), id, status)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"application": dto.FromStorageApplication(app),
	})
}

// Delete - DELETE /applications/{id}
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if appErr := h.ApplicationService.Delete(r.Context(), id); appErr != nil {
		respondAppError(w, appErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
