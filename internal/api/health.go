package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/realtypilot/realtypilot/internal/store"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	repo      store.Repository
	startedAt time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(repo store.Repository) *HealthHandler {
	return &HealthHandler{repo: repo, startedAt: time.Now()}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.HandleHealth)
}

// HandleHealth handles GET /api/health. Database trouble is reported as
// degraded rather than failing the whole check; the site still serves pages
// and chat without the store.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	if err := h.repo.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	JSON(w, http.StatusOK, map[string]string{
		"status": status,
		"db":     dbStatus,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
