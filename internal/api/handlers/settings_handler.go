package handlers

import (
	"net/http"

	"github.com/tokarboss/manager-ya/internal/api/dto"
	"github.com/tokarboss/manager-ya/internal/service"
)

// SettingsHandler читает и переключает флаг автораспределения.
type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// NewSettingsHandler создаёт новый SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{SettingsService: settingsService}
}

// Get - GET /settings/auto-distribution
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	on, appErr := h.SettingsService.AutoDistribution(r.Context())
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, dto.SettingsResponse{AutoDistribution: on})
}

// Set - PUT /settings/auto-distribution
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "enabled is required")
		return
	}

	on, appErr := h.SettingsService.Set(r.Context(), *req.Enabled)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, dto.SettingsResponse{AutoDistribution: on})
}

// Toggle - POST /settings/auto-distribution/toggle
func (h *SettingsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	on, appErr := h.SettingsService.Toggle(r.Context())
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, dto.SettingsResponse{AutoDistribution: on})
}
