package handlers

import (
	"net/http"

	"github.com/tokarboss/manager-ya/internal/api/dto"
	"github.com/tokarboss/manager-ya/internal/service"
)

// StatsHandler обрабатывает запросы статистики и дашборда.
type StatsHandler struct {
	ApplicationService *service.ApplicationService
	ManagerService     *service.ManagerService
	SettingsService    *service.SettingsService
	DefaultLimit       int
}

// NewStatsHandler создаёт новый StatsHandler.
func NewStatsHandler(
	applicationService *service.ApplicationService,
	managerService *service.ManagerService,
	settingsService *service.SettingsService,
	defaultLimit int,
) *StatsHandler {
	return &StatsHandler{
		ApplicationService: applicationService,
		ManagerService:     managerService,
		SettingsService:    settingsService,
		DefaultLimit:       defaultLimit,
	}
}

// GetStats - GET /stats
func (s *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	st, appErr := s.ApplicationService.Stats(r.Context())
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromStorageStats(st))
}

// Dashboard - GET /dashboard?limit=N
func (s *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, s.DefaultLimit)
	if !ok {
		return
	}
	ctx := r.Context()

	managers, appErr := s.ManagerService.List(ctx)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	loads, appErr := s.ManagerService.Loads(ctx)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	views, appErr := s.ApplicationService.ListRecent(ctx, limit)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	st, appErr := s.ApplicationService.Stats(ctx)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}
	on, appErr := s.SettingsService.AutoDistribution(ctx)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	respondJSON(w, http.StatusOK, dto.DashboardResponse{
		Managers:         dto.FromStorageManagers(managers),
		Loads:            dto.FromStorageLoads(loads),
		Applications:     dto.FromStorageViews(views),
		Stats:            dto.FromStorageStats(st),
		AutoDistribution: on,
	})
}
