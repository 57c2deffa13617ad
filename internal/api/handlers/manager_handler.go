package handlers

import (
	"net/http"

	"github.com/tokarboss/manager-ya/internal/api/dto"
	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
)

// ManagerHandler обрабатывает HTTP-запросы, связанные с менеджерами.
type ManagerHandler struct {
	ManagerService *service.ManagerService
}

// NewManagerHandler возвращает новый ManagerHandler.
func NewManagerHandler(managerService *service.ManagerService) *ManagerHandler {
	return &ManagerHandler{ManagerService: managerService}
}

// List - GET /managers
func (h *ManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	managers, appErr := h.ManagerService.List(r.Context())
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"managers": dto.FromStorageManagers(managers),
	})
}

// Upsert - POST /managers. Повторный вызов обновляет имя и ник и снимает со смены.
func (h *ManagerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.ManagerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, appErr := h.ManagerService.Upsert(r.Context(), req.ID, req.Name, req.Username)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"manager": dto.FromStorageManager(m),
	})
}

// Delete - DELETE /managers/{id}
func (h *ManagerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if appErr := h.ManagerService.Delete(r.Context(), id); appErr != nil {
		respondAppError(w, appErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetShift - POST /managers/{id}/shift
func (h *ManagerHandler) SetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.ShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.OnShift == nil {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "on_shift is required")
		return
	}

	shift := storage.ShiftOff
	if *req.OnShift {
		shift = storage.ShiftOn
	}

	change, appErr := h.ManagerService.SetShift(r.Context(), id, shift)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromStorageShiftChange(change))
}
