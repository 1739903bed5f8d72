package state

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4state/internal/telemetry"
)

const (
	// DefaultLeaseDuration is the default NFSv4 lease duration (90 seconds).
	DefaultLeaseDuration = 90 * time.Second

	// DefaultMaxSessions is the soft capacity of the session cache. Going
	// over it triggers an early idle sweep; live sessions are never evicted.
	DefaultMaxSessions = 5000
)

// Client removal reasons used in logs and metric labels.
const (
	RemovalExplicit   = "explicit"
	RemovalNoSessions = "no_sessions"
)

// StateHandler is the single authority over NFSv4 client and session state.
//
// One RWMutex guards the client registry together with every operation that
// must see the registry and the session cache change atomically (detaching
// a session and removing its client once it owns none). The session cache
// has its own internal synchronisation for raw lookups.
//
// Lock order: StateHandler.mu, then Client.mu. Client disposal always runs
// after StateHandler.mu is released.
type StateHandler struct {
	mu      sync.RWMutex
	running bool

	// clients maps server-assigned client ids to live clients.
	clients map[uint64]*Client

	sessions *sessionCache

	leaseDuration time.Duration
	maxSessions   int

	// bootEpoch fills the high 32 bits of every client id.
	bootEpoch     uint32
	nextClientSeq atomic.Uint32

	metrics *StateMetrics

	sweepInterval time.Duration
	cancel        context.CancelFunc
	sweeperDone   chan struct{}
}

// Option configures a StateHandler.
type Option func(*StateHandler)

// WithLeaseDuration sets the lease granted to clients. The session idle
// timeout is twice the lease and the sweep runs every four leases.
func WithLeaseDuration(d time.Duration) Option {
	return func(h *StateHandler) {
		if d > 0 {
			h.leaseDuration = d
		}
	}
}

// WithMaxSessions sets the soft capacity of the session cache.
// AddSession never refuses or evicts a live session because of it.
func WithMaxSessions(n int) Option {
	return func(h *StateHandler) {
		if n > 0 {
			h.maxSessions = n
		}
	}
}

// WithMetrics attaches Prometheus metrics. A nil value disables them.
func WithMetrics(m *StateMetrics) Option {
	return func(h *StateHandler) { h.metrics = m }
}

// NewStateHandler creates a running StateHandler and starts its background
// session sweep.
func NewStateHandler(opts ...Option) (*StateHandler, error) {
	h := &StateHandler{
		running:       true,
		clients:       make(map[uint64]*Client),
		leaseDuration: DefaultLeaseDuration,
		maxSessions:   DefaultMaxSessions,
		bootEpoch:     uint32(time.Now().Unix()),
	}
	for _, opt := range opts {
		opt(h)
	}

	sessions, err := newSessionCache(h.maxSessions, 2*h.leaseDuration)
	if err != nil {
		return nil, err
	}
	h.sessions = sessions
	h.sweepInterval = 4 * h.leaseDuration

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.sweeperDone = make(chan struct{})
	go h.runSweeper(ctx)

	logger.Info("NFSv4 state handler started",
		logger.KeyLease, h.leaseDuration,
		"max_sessions", h.maxSessions,
		"sweep_interval", h.sweepInterval)

	return h, nil
}

// LeaseDuration returns the configured lease duration.
func (h *StateHandler) LeaseDuration() time.Duration { return h.leaseDuration }

func (h *StateHandler) generateClientID() uint64 {
	return uint64(h.bootEpoch)<<32 | uint64(h.nextClientSeq.Add(1))
}

// ============================================================================
// Client Registry
// ============================================================================

// CreateClient registers a new client with a fresh id and a lease starting
// now.
func (h *StateHandler) CreateClient(remote, local net.Addr, ownerID []byte, verifier types.Verifier4,
	principal string, callbackNeeded bool) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil, ErrNotRunning
	}

	id := h.generateClientID()
	for h.clients[id] != nil {
		id = h.generateClientID()
	}

	c := newClient(id, remote, local, ownerID, verifier, principal, callbackNeeded, h.leaseDuration)
	h.clients[id] = c
	h.metrics.clientCreated()

	logger.Debug("Client registered",
		logger.ClientID(id),
		logger.OwnerID(ownerID),
		"remote", addrString(remote))

	return c, nil
}

// GetClientByID returns the live client with the given id, or
// ErrStaleClientID.
func (h *StateHandler) GetClientByID(id uint64) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return nil, ErrNotRunning
	}
	c, ok := h.clients[id]
	if !ok {
		return nil, stateErrorf(ErrStaleClientID, "client %x", id)
	}
	return c, nil
}

// GetClientByStateid resolves the client encoded in the first eight bytes
// of sid. A stateid whose client is gone yields ErrBadStateid.
func (h *StateHandler) GetClientByStateid(sid *types.Stateid4) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return nil, ErrNotRunning
	}
	return h.clientByStateidLocked(sid)
}

func (h *StateHandler) clientByStateidLocked(sid *types.Stateid4) (*Client, error) {
	if sid == nil {
		return nil, stateErrorf(ErrBadStateid, "missing stateid")
	}
	id := sid.ClientID()
	c, ok := h.clients[id]
	if !ok {
		return nil, stateErrorf(ErrBadStateid, "client %x of stateid %s not found", id, sid)
	}
	return c, nil
}

// ClientByOwner returns the live client registered with ownerID, or nil if
// there is none. The scan is linear in the number of clients.
func (h *StateHandler) ClientByOwner(ownerID []byte) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return nil, ErrNotRunning
	}
	for _, c := range h.clients {
		if c.IsOwner(ownerID) {
			return c, nil
		}
	}
	return nil, nil
}

// RemoveClient drops every session of c from the cache, erases c from the
// registry and then releases its resources. Removing a client that is no
// longer registered is a no-op.
func (h *StateHandler) RemoveClient(c *Client) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrNotRunning
	}
	removed := h.removeClientLocked(c, RemovalExplicit)
	h.mu.Unlock()

	if removed {
		c.dispose()
	}
	return nil
}

// removeClientLocked reports whether c was still registered. Caller holds
// h.mu for writing and must dispose c after releasing it.
func (h *StateHandler) removeClientLocked(c *Client, reason string) bool {
	if h.clients[c.id] != c {
		return false
	}

	// A session already expired by the cache but not yet drained is counted
	// here; detachEvicted skips it once the client is gone.
	for _, s := range c.Sessions() {
		h.sessions.invalidate(s.id)
		h.metrics.sessionDestroyed(ReasonClientRemoved, time.Since(s.createdAt).Seconds())
		c.removeSession(s.id)
	}

	delete(h.clients, c.id)
	h.metrics.clientRemoved(reason)

	logger.Info("Client removed", logger.ClientID(c.id), logger.Reason(reason))
	return true
}

// Clients returns a point-in-time snapshot of all live clients.
func (h *StateHandler) Clients() ([]*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return nil, ErrNotRunning
	}
	out := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out, nil
}

// ============================================================================
// Lease
// ============================================================================

// UpdateClientLeaseTime renews the lease of the client owning sid. The
// addressed state must exist, be confirmed and be at exactly the presented
// generation; otherwise nothing is updated.
//
// The handler read lock is held throughout so the client cannot be removed
// between resolution and renewal.
func (h *StateHandler) UpdateClientLeaseTime(sid *types.Stateid4) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return ErrNotRunning
	}

	c, err := h.clientByStateidLocked(sid)
	if err == nil {
		err = c.renewWithStateid(sid)
	}
	h.metrics.leaseRenewal(types.StatusName(StatusOf(err)))

	if err != nil && sid != nil {
		logger.Debug("Lease renewal rejected", logger.Stateid(sid), logger.Err(err))
	}
	return err
}

// HasGracePeriodExpired always reports true: no state survives a restart,
// so there is nothing for returning clients to reclaim.
func (h *StateHandler) HasGracePeriodExpired() (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.running {
		return false, ErrNotRunning
	}
	return true, nil
}

// ============================================================================
// Sessions
// ============================================================================

// AddSession makes s live. Its client must still be registered.
func (h *StateHandler) AddSession(s *Session) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrNotRunning
	}

	c := s.client
	if c == nil || h.clients[c.id] != c {
		h.mu.Unlock()
		return stateErrorf(ErrStaleClientID, "session %s has no registered client", s.id)
	}

	c.addSession(s)
	h.sessions.set(s)
	h.metrics.sessionCreated()
	h.mu.Unlock()

	logger.Debug("Session added", logger.SessionID(s.id.String()), logger.ClientID(c.id))

	if n := h.sessions.len(); n > h.maxSessions {
		logger.Warn("Session cache over soft capacity, sweeping idle sessions",
			"sessions", n, "max_sessions", h.maxSessions)
		_, _ = h.sweep()
		return nil
	}
	h.detachEvicted(h.sessions.drain())
	return nil
}

// GetSession looks up a live session and refreshes its idle clock. It
// returns (nil, nil) when the session does not exist. A session the lookup
// finds idle past its timeout is detached, and its client removed if it was
// the last one, before GetSession returns.
func (h *StateHandler) GetSession(id types.SessionId4) (*Session, error) {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return nil, ErrNotRunning
	}
	s, ok := h.sessions.get(id)
	h.mu.RUnlock()

	h.detachEvicted(h.sessions.drain())

	if !ok {
		return nil, nil
	}
	return s, nil
}

// RemoveSession destroys a session on request of the protocol layer. The
// session is detached from its client before returning, and the client is
// removed if it owns no other session.
func (h *StateHandler) RemoveSession(id types.SessionId4) (*Session, error) {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil, ErrNotRunning
	}

	s, ok := h.sessions.invalidate(id)
	if !ok {
		h.mu.Unlock()
		h.detachEvicted(h.sessions.drain())
		return nil, stateErrorf(ErrBadSession, "session %s", id)
	}
	orphan, _ := h.detachLocked(s, ReasonClientRequest)
	h.mu.Unlock()

	if orphan != nil {
		orphan.dispose()
	}
	return s, nil
}

// SessionCount returns the approximate number of cached sessions.
func (h *StateHandler) SessionCount() int {
	return h.sessions.len()
}

// detachLocked unlinks s from its client and removes the client if that was
// its last session. It returns the removed client, which the caller must
// dispose after releasing h.mu. A session that is no longer linked is left
// alone and detached reports false.
func (h *StateHandler) detachLocked(s *Session, reason string) (orphan *Client, detached bool) {
	c := s.client
	remaining, linked := c.removeSession(s.id)
	if !linked {
		return nil, false
	}
	h.metrics.sessionDestroyed(reason, time.Since(s.createdAt).Seconds())

	if remaining == 0 && h.removeClientLocked(c, RemovalNoSessions) {
		return c, true
	}
	return nil, true
}

// ============================================================================
// Sweep
// ============================================================================

// Sweep runs one eviction pass: every session idle past its timeout is
// expired and detached from its client.
func (h *StateHandler) Sweep() error {
	_, err := h.sweep()
	return err
}

func (h *StateHandler) sweep() (int, error) {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return 0, ErrNotRunning
	}
	var idle []types.SessionId4
	for _, c := range h.clients {
		for _, s := range c.Sessions() {
			if time.Since(s.LastUsed()) >= h.sessions.idle {
				idle = append(idle, s.id)
			}
		}
	}
	h.mu.RUnlock()

	for _, id := range idle {
		h.sessions.expire(id)
	}
	return h.detachEvicted(h.sessions.sweep()), nil
}

// tracedSweep is Sweep wrapped in a state.sweep span.
func (h *StateHandler) tracedSweep(ctx context.Context) error {
	_, span := telemetry.StartSpan(ctx, telemetry.SpanStateSweep)
	defer span.End()

	n, err := h.sweep()
	span.SetAttributes(telemetry.ExpiredSessions(n))
	return err
}

// detachEvicted takes h.mu itself; it must be called after the cache has
// returned from maintenance and without h.mu held. It returns how many
// sessions were detached.
func (h *StateHandler) detachEvicted(evicted []evictedSession) int {
	if len(evicted) == 0 {
		return 0
	}

	var orphans []*Client
	n := 0

	h.mu.Lock()
	for _, e := range evicted {
		// the client was removed explicitly after the cache expired the session
		if h.clients[e.session.client.id] != e.session.client {
			continue
		}
		c, detached := h.detachLocked(e.session, e.reason)
		if !detached {
			continue
		}
		n++
		logger.Info("Removed expired session",
			logger.SessionID(e.session.id.String()),
			logger.ClientID(e.session.client.id),
			logger.Reason(e.reason))
		if c != nil {
			orphans = append(orphans, c)
		}
	}
	h.mu.Unlock()

	for _, c := range orphans {
		c.dispose()
	}
	return n
}

func (h *StateHandler) runSweeper(ctx context.Context) {
	defer close(h.sweeperDone)

	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.tracedSweep(ctx); err != nil {
				return
			}
		}
	}
}

// ============================================================================
// Shutdown
// ============================================================================

// Shutdown stops the handler for good. Every later call, including a second
// Shutdown, fails with ErrNotRunning.
func (h *StateHandler) Shutdown() error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrNotRunning
	}
	h.running = false
	clients := len(h.clients)
	h.mu.Unlock()

	h.cancel()
	<-h.sweeperDone

	logger.Info("NFSv4 state handler stopped", logger.KeyClients, clients)
	return nil
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
