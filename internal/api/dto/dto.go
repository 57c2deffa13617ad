// Package dto содержит структуры DTO для HTTP API.
package dto

import "time"

// ErrorResponse - формат ошибки.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail - код и сообщение об ошибке.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ManagerRequest - POST /managers body.
type ManagerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// ManagerResponse - формат менеджера.
type ManagerResponse struct {
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Shift     string    `json:"shift"`
	ID        int64     `json:"id"`
}

// ShiftRequest - POST /managers/{id}/shift body.
type ShiftRequest struct {
	OnShift *bool `json:"on_shift"`
}

// ShiftResponse - новый статус смены и вернувшиеся в очередь заявки.
type ShiftResponse struct {
	Manager  ManagerResponse `json:"manager"`
	Released []int64         `json:"released"`
}

// ManagerLoadResponse - нагрузка менеджера на смене.
type ManagerLoadResponse struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	ManagerID int64  `json:"manager_id"`
	Count     int    `json:"in_progress"`
}

// ApplicationRequest - POST /applications body.
type ApplicationRequest struct {
	CandidateName     string `json:"candidate_name"`
	CandidateUsername string `json:"candidate_username"`
	Info              string `json:"info"`
	Phone             string `json:"phone"`
	CandidateID       int64  `json:"candidate_id"`
}

// ApplicationResponse - формат заявки.
type ApplicationResponse struct {
	CreatedAt         time.Time `json:"created_at"`
	ManagerID         *int64    `json:"manager_id"`
	CandidateName     string    `json:"candidate_name"`
	CandidateUsername string    `json:"candidate_username,omitempty"`
	Info              string    `json:"info"`
	Phone             string    `json:"phone"`
	Status            string    `json:"status"`
	ManagerName       string    `json:"manager_name,omitempty"`
	ID                int64     `json:"id"`
	CandidateID       int64     `json:"candidate_id"`
}

// SubmitResponse - POST /applications response.
type SubmitResponse struct {
	Manager     *ManagerLoadResponse `json:"assigned_to"`
	Application ApplicationResponse  `json:"application"`
}

// AssignRequest - POST /applications/{id}/assign body.
type AssignRequest struct {
	ManagerID int64 `json:"manager_id"`
}

// OutcomeRequest - POST /applications/{id}/outcome body.
type OutcomeRequest struct {
	Outcome string `json:"outcome"`
}

// StatsResponse - GET /stats response.
type StatsResponse struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// SettingsRequest - PUT /settings/auto-distribution body.
type SettingsRequest struct {
	Enabled *bool `json:"enabled"`
}

// SettingsResponse - состояние флага автораспределения.
type SettingsResponse struct {
	AutoDistribution bool `json:"auto_distribution"`
}

// DashboardResponse - GET /dashboard response.
type DashboardResponse struct {
	Managers         []ManagerResponse     `json:"managers"`
	Loads            []ManagerLoadResponse `json:"loads"`
	Applications     []ApplicationResponse `json:"applications"`
	Stats            StatsResponse         `json:"stats"`
	AutoDistribution bool                  `json:"auto_distribution"`
}
