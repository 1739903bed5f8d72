package handlers

import (
	"net/http"
	"time"
)

// HealthHandler handles the unauthenticated health endpoints.
type HealthHandler struct {
	sm        StateAuthority
	startTime time.Time
}

// NewHealthHandler creates a health handler. sm may be nil, in which case
// readiness always fails.
func NewHealthHandler(sm StateAuthority) *HealthHandler {
	return &HealthHandler{
		sm:        sm,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health. It succeeds as long as the HTTP server
// answers.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"service":    "nfs4state",
		"started_at": h.startTime.UTC().Format(time.RFC3339),
		"uptime":     uptime.Round(time.Second).String(),
		"uptime_sec": int64(uptime.Seconds()),
	}))
}

// Readiness handles GET /health/ready. It fails once the state handler
// has been shut down.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.sm == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("state handler not initialized"))
		return
	}

	clients, err := h.sm.Clients()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"clients":    len(clients),
		"sessions":   h.sm.SessionCount(),
		"lease_time": h.sm.LeaseDuration().String(),
	}))
}
