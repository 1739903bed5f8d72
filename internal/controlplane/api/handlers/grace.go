package handlers

import (
	"net/http"
)

// GraceHandler handles grace period API endpoints.
type GraceHandler struct {
	sm StateAuthority
}

// NewGraceHandler creates a handler for grace period endpoints.
// Returns nil if sm is nil.
func NewGraceHandler(sm StateAuthority) *GraceHandler {
	if sm == nil {
		return nil
	}
	return &GraceHandler{sm: sm}
}

// GraceStatusResponse is the JSON response for GET /api/v1/grace.
type GraceStatusResponse struct {
	Active    bool   `json:"active"`
	LeaseTime string `json:"lease_time"`
	Message   string `json:"message"`
}

// Status handles GET /api/v1/grace (unauthenticated).
func (h *GraceHandler) Status(w http.ResponseWriter, r *http.Request) {
	expired, err := h.sm.HasGracePeriodExpired()
	if err != nil {
		WriteStateError(w, err)
		return
	}

	resp := GraceStatusResponse{
		Active:    !expired,
		LeaseTime: h.sm.LeaseDuration().String(),
		Message:   "No active grace period",
	}
	if resp.Active {
		resp.Message = "Grace period active: only reclaim requests are accepted"
	}

	WriteJSONOK(w, resp)
}
