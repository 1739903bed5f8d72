package handlers

import (
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/state"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4state/internal/telemetry"
)

// StateAuthority is the subset of *state.StateHandler the admin API uses.
type StateAuthority interface {
	Clients() ([]*state.Client, error)
	GetClientByID(id uint64) (*state.Client, error)
	GetClientByStateid(sid *types.Stateid4) (*state.Client, error)
	RemoveClient(c *state.Client) error
	RemoveSession(id types.SessionId4) (*state.Session, error)
	HasGracePeriodExpired() (bool, error)
	SessionCount() int
	LeaseDuration() time.Duration
}

// ClientHandler handles NFS client management API endpoints.
type ClientHandler struct {
	sm StateAuthority
}

// NewClientHandler creates a handler for client endpoints.
// Returns nil if sm is nil.
func NewClientHandler(sm StateAuthority) *ClientHandler {
	if sm == nil {
		return nil
	}
	return &ClientHandler{sm: sm}
}

// ClientInfo is the response type for client list and detail endpoints.
type ClientInfo struct {
	ClientID       string    `json:"client_id"`
	OwnerID        string    `json:"owner_id"`
	Address        string    `json:"address"`
	LocalAddress   string    `json:"local_address,omitempty"`
	Principal      string    `json:"principal,omitempty"`
	Confirmed      bool      `json:"confirmed"`
	CallbackNeeded bool      `json:"callback_needed"`
	CreatedAt      time.Time `json:"created_at"`
	LastRenewal    time.Time `json:"last_renewal"`
	LeaseStatus    string    `json:"lease_status"`
	LeaseRemaining string    `json:"lease_remaining"`
	Sessions       int       `json:"sessions"`
	States         int       `json:"states"`
}

// SessionInfo is the response type for session list endpoints.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	ClientID  string    `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// List handles GET /api/v1/clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.sm.Clients()
	if err != nil {
		WriteStateError(w, err)
		return
	}

	result := make([]ClientInfo, 0, len(clients))
	for _, c := range clients {
		result = append(result, clientToInfo(c))
	}

	WriteJSONOK(w, result)
}

// Get handles GET /api/v1/clients/{id}.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	WriteJSONOK(w, clientToInfo(c))
}

// Evict handles DELETE /api/v1/clients/{id}. All sessions of the client are
// dropped and its state released.
func (h *ClientHandler) Evict(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	telemetry.SetAttributes(r.Context(), telemetry.ClientID(c.ID()))
	if err := h.sm.RemoveClient(c); err != nil {
		telemetry.RecordError(r.Context(), err)
		WriteStateError(w, err)
		return
	}

	logger.InfoCtx(r.Context(), "Client evicted via admin API", logger.ClientID(c.ID()))
	WriteNoContent(w)
}

// ListSessions handles GET /api/v1/clients/{id}/sessions.
func (h *ClientHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	sessions := c.Sessions()
	result := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, sessionToInfo(s))
	}

	WriteJSONOK(w, result)
}

// lookup resolves the {id} URL parameter. On failure the error response has
// already been written.
func (h *ClientHandler) lookup(w http.ResponseWriter, r *http.Request) (*state.Client, bool) {
	clientID, err := parseClientID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid client ID format, expected hex")
		return nil, false
	}

	c, err := h.sm.GetClientByID(clientID)
	if err != nil {
		WriteStateError(w, err)
		return nil, false
	}
	return c, true
}

func parseClientID(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// FormatClientID renders a client id the way the API expects it back.
func FormatClientID(id uint64) string {
	return fmt.Sprintf("%016x", id)
}

func clientToInfo(c *state.Client) ClientInfo {
	return ClientInfo{
		ClientID:       FormatClientID(c.ID()),
		OwnerID:        hex.EncodeToString(c.OwnerID()),
		Address:        addrString(c.RemoteAddr()),
		LocalAddress:   addrString(c.LocalAddr()),
		Principal:      c.Principal(),
		Confirmed:      c.IsConfirmed(),
		CallbackNeeded: c.CallbackNeeded(),
		CreatedAt:      c.CreatedAt(),
		LastRenewal:    c.LastRenewal(),
		LeaseStatus:    leaseStatus(c),
		LeaseRemaining: c.RemainingLease().Round(time.Second).String(),
		Sessions:       len(c.Sessions()),
		States:         c.StateCount(),
	}
}

func sessionToInfo(s *state.Session) SessionInfo {
	return SessionInfo{
		SessionID: s.ID().String(),
		ClientID:  FormatClientID(s.Client().ID()),
		CreatedAt: s.CreatedAt(),
		LastUsed:  s.LastUsed(),
	}
}

// leaseStatus derives a human-readable lease status string.
func leaseStatus(c *state.Client) string {
	if c.LeaseExpired() {
		return "expired"
	}
	return "active"
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
