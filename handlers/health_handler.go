package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// HealthCheck проверяет одну зависимость.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	version string
	started time.Time
}

func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, version: version, started: time.Now()}
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks"`
}

// Health godoc
// @Summary Проверка живости сервиса и его зависимостей
// @Tags system
// @Produce json
// @Success 200 {object} envelope
// @Failure 503 {object} envelope
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := healthStatus{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
		Checks:    make(map[string]string, len(names)),
	}

	code := http.StatusOK
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			slog.WarnContext(r.Context(), "health check failed", slog.String("check", name), slog.Any("error", err))
			status.Checks[name] = "unavailable"
			status.Status = "DEGRADED"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "ok"
	}

	env := envelope{Success: code == http.StatusOK, Message: "PlaySplit API is " + status.Status, Data: status}
	if err := writeJSON(w, code, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", slog.Any("error", err))
	}
}
