package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tokarboss/manager-ya/internal/api/dto"
	"github.com/tokarboss/manager-ya/internal/apperrors"
)

// InvalidType - тип ошибок запроса.
type InvalidType string

// InvalidRequest - некорректный запрос.
const InvalidRequest InvalidType = "INVALID_REQUEST"

// respondJSON отправляет JSON-ответ с заданным статусом.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// respondError отправляет ошибку в формате ErrorResponse.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondAppError маппит *apperrors.AppError в HTTP-ответ.
func respondAppError(w http.ResponseWriter, err *apperrors.AppError) {
	respondError(w, err.HTTPStatus(), string(err.Code), err.Message)
}

// decodeJSON читает тело запроса. При ошибке ответ уже отправлен.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "invalid JSON")
		return false
	}
	return true
}

// pathID читает положительный {id} из пути.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryLimit читает ?limit=N, fallback при отсутствии.
func queryLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondError(w, http.StatusBadRequest, string(InvalidRequest), "limit must be a positive integer")
		return 0, false
	}
	return n, true
}
