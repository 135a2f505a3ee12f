package handlers

import (
	"database/sql"
	"net/http"

	"github.com/ainews/apiserver/config"
	"github.com/go-chi/chi/v5"
)

// HealthHandler exposes liveness and database connectivity probes.
type HealthHandler struct {
	cfg config.Config
	db  *sql.DB
}

func NewHealthHandler(cfg config.Config, db *sql.DB) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db}
}

// HealthRouter registers the health probes.
func HealthRouter(r chi.Router, handler *HealthHandler) {
	r.Get("/", handler.Health)
	r.Get("/db", handler.DatabaseHealth)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.cfg.ProjectName + " API",
	})
}

// DatabaseHealth probes the database with a trivial query. It reports
// the outcome in the body and keeps the status at 200 either way.
func (h *HealthHandler) DatabaseHealth(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&one); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}

// Root is the API landing endpoint.
func Root(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message":     "Welcome to " + cfg.ProjectName,
			"version":     cfg.Version,
			"environment": cfg.Environment,
		})
	}
}
