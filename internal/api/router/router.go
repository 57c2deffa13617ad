// Package router регистрирует HTTP-маршруты и возвращает http.Handler.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tokarboss/manager-ya/internal/api/handlers"
)

// RequestObserver получает итог каждого запроса.
type RequestObserver interface {
	HTTPRequest(route string, status int, d time.Duration)
}

// Handlers - набор обработчиков API.
type Handlers struct {
	Managers     *handlers.ManagerHandler
	Applications *handlers.ApplicationHandler
	Stats        *handlers.StatsHandler
	Settings     *handlers.SettingsHandler
}

// NewRouter создаёт HTTP router с зарегистрированными маршрутами.
// gatherer == nil отключает /metrics, observer == nil отключает учёт запросов.
func NewRouter(h Handlers, gatherer prometheus.Gatherer, observer RequestObserver, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /managers", h.Managers.List)
	mux.HandleFunc("POST /managers", h.Managers.Upsert)
	mux.HandleFunc("DELETE /managers/{id}", h.Managers.Delete)
	mux.HandleFunc("POST /managers/{id}/shift", h.Managers.SetShift)

	mux.HandleFunc("GET /applications", h.Applications.List)
	mux.HandleFunc("POST /applications", h.Applications.Submit)
	mux.HandleFunc("POST /applications/{id}/assign", h.Applications.Assign)
	mux.HandleFunc("POST /applications/{id}/outcome", h.Applications.Outcome)
	mux.HandleFunc("DELETE /applications/{id}", h.Applications.Delete)

	mux.HandleFunc("GET /stats", h.Stats.GetStats)
	mux.HandleFunc("GET /dashboard", h.Stats.Dashboard)

	mux.HandleFunc("GET /settings/auto-distribution", h.Settings.Get)
	mux.HandleFunc("PUT /settings/auto-distribution", h.Settings.Set)
	mux.HandleFunc("POST /settings/auto-distribution/toggle", h.Settings.Toggle)

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			http.Error(w, "failed to write response", http.StatusInternalServerError)
		}
	})

	return withRequestID(logger, withMetrics(observer, mux))
}

func withRequestID(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		logger.Debug("request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.status),
			slog.String("request_id", requestID),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func withMetrics(observer RequestObserver, next http.Handler) http.Handler {
	if observer == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observer.HTTPRequest(route, recorder.status, time.Since(start))
	})
}
