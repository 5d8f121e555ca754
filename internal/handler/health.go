package handler

import (
	"context"
	"net/http"

	natsx "github.com/packprint/sales-agent/internal/nats"
)

// Pinger checks database connectivity. Nil means no database is configured.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	natsClient *natsx.Client
	db         Pinger
}

// NewHealthHandler creates a new health handler. Either dependency may be
// nil when the corresponding backend is not configured.
func NewHealthHandler(natsClient *natsx.Client, db Pinger) *HealthHandler {
	return &HealthHandler{
		natsClient: natsClient,
		db:         db,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "database unreachable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
