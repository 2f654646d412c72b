package handlers

import (
	"net/http"

	"github.com/khawaidev/koye-ai-cli-start/internal/http/respond"
)

// HealthHandler reports basic liveness.
type HealthHandler struct {
	service string
	version string
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}
