// Package http provides the HTTP API: the news aggregation endpoint, health
// checks, and the middleware stack around them.
package http

import (
	"net/http"
	"time"

	"cardfeed/internal/handler/http/respond"
)

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthHandler serves liveness and readiness probes. The service keeps no
// local state, so readiness equals liveness.
type HealthHandler struct {
	Version string
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
	})
}

// Readyz reports readiness to serve traffic.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	h.Healthz(w, r)
}
