package apiclient

import (
	"context"
	"net/url"
	"time"
)

// ClientInfo represents an NFSv4 client record returned by the API.
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

// SessionInfo represents a session returned by the API.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	ClientID  string    `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// StateidInfo is a stateid resolved to the client that owns it.
type StateidInfo struct {
	Stateid string     `json:"stateid"`
	Seqid   uint32     `json:"seqid"`
	Counter uint32     `json:"counter"`
	Client  ClientInfo `json:"client"`
}

// ListClients returns all client records.
func (c *Client) ListClients(ctx context.Context) ([]ClientInfo, error) {
	return listResources[ClientInfo](ctx, c, "/api/v1/clients")
}

// GetClient returns one client by hex client ID.
func (c *Client) GetClient(ctx context.Context, clientID string) (*ClientInfo, error) {
	return getResource[ClientInfo](ctx, c, "/api/v1/clients/"+url.PathEscape(clientID))
}

// EvictClient removes a client and all of its sessions (admin only).
func (c *Client) EvictClient(ctx context.Context, clientID string) error {
	return c.delete(ctx, "/api/v1/clients/"+url.PathEscape(clientID))
}

// ListSessions returns the sessions of a client.
func (c *Client) ListSessions(ctx context.Context, clientID string) ([]SessionInfo, error) {
	return listResources[SessionInfo](ctx, c, "/api/v1/clients/"+url.PathEscape(clientID)+"/sessions")
}

// ResolveStateid returns the client owning a stateid given as the hex form
// of its XDR encoding.
func (c *Client) ResolveStateid(ctx context.Context, stateid string) (*StateidInfo, error) {
	return getResource[StateidInfo](ctx, c, "/api/v1/stateids/"+url.PathEscape(stateid))
}

// DestroySession removes a session by hex session ID (admin only). The owning
// client goes with it when this was its last session.
func (c *Client) DestroySession(ctx context.Context, sessionID string) error {
	return c.delete(ctx, "/api/v1/sessions/"+url.PathEscape(sessionID))
}
