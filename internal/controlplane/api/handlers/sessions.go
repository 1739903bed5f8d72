package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4state/internal/telemetry"
)

// SessionHandler handles session management API endpoints.
type SessionHandler struct {
	sm StateAuthority
}

// NewSessionHandler creates a handler for session endpoints.
// Returns nil if sm is nil.
func NewSessionHandler(sm StateAuthority) *SessionHandler {
	if sm == nil {
		return nil
	}
	return &SessionHandler{sm: sm}
}

// Destroy handles DELETE /api/v1/sessions/{sid}. When it was the client's
// last session the client is removed as well.
func (h *SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	sid, err := types.ParseSessionId4(chi.URLParam(r, "sid"))
	if err != nil {
		BadRequest(w, "invalid session ID format, expected 32 hex characters")
		return
	}

	telemetry.SetAttributes(r.Context(), telemetry.SessionID(sid.String()))
	s, err := h.sm.RemoveSession(sid)
	if err != nil {
		telemetry.RecordError(r.Context(), err)
		WriteStateError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "Session destroyed via admin API",
		logger.SessionID(sid.String()), logger.ClientID(s.Client().ID()))
	WriteNoContent(w)
}
