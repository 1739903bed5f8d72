// Package state implements the NFSv4.1 client and session state authority:
// the client registry, stateid resolution, the idle-expiring session cache
// and the StateHandler that keeps them consistent.
package state

import (
	"bytes"
	"net"
	"sync"
	"time"

	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

// ============================================================================
// Client
// ============================================================================

// Client is the server-side record of one registered NFSv4 client.
//
// Identity fields are fixed at creation. The lease clock, granted state and
// session set are guarded by the client's own mutex; callers that also hold
// the StateHandler lock must take it first.
type Client struct {
	// id is the server-assigned 64-bit client identifier.
	// Boot epoch in the high 32 bits, sequence counter in the low 32.
	id uint64

	// ownerID is the opaque co_ownerid supplied by the client. It is stable
	// across client reboots and is what ClientByOwner matches on.
	ownerID []byte

	// verifier changes every time the client reboots.
	verifier types.Verifier4

	remoteAddr net.Addr
	localAddr  net.Addr

	// principal is the authenticated principal, empty for AUTH_SYS/none.
	principal string

	callbackNeeded bool
	createdAt      time.Time
	leaseDuration  time.Duration

	mu          sync.Mutex
	lastRenewal time.Time
	confirmed   bool
	states      map[[types.NFS4_OTHER_SIZE]byte]*GrantedState
	nextState   uint32
	sessions    map[types.SessionId4]*Session

	disposeOnce sync.Once
	disposed    bool
}

func newClient(id uint64, remote, local net.Addr, ownerID []byte, verifier types.Verifier4,
	principal string, callbackNeeded bool, lease time.Duration) *Client {
	now := time.Now()
	return &Client{
		id:             id,
		ownerID:        bytes.Clone(ownerID),
		verifier:       verifier,
		remoteAddr:     remote,
		localAddr:      local,
		principal:      principal,
		callbackNeeded: callbackNeeded,
		createdAt:      now,
		leaseDuration:  lease,
		lastRenewal:    now,
		states:         make(map[[types.NFS4_OTHER_SIZE]byte]*GrantedState),
		sessions:       make(map[types.SessionId4]*Session),
	}
}

// ID returns the server-assigned client id.
func (c *Client) ID() uint64 { return c.id }

// OwnerID returns a copy of the client-supplied owner id.
func (c *Client) OwnerID() []byte { return bytes.Clone(c.ownerID) }

// Verifier returns the verifier presented at registration.
func (c *Client) Verifier() types.Verifier4 { return c.verifier }

// RemoteAddr returns the client's address.
func (c *Client) RemoteAddr() net.Addr { return c.remoteAddr }

// LocalAddr returns the server address the client connected to.
func (c *Client) LocalAddr() net.Addr { return c.localAddr }

// Principal returns the security principal, or "" if none.
func (c *Client) Principal() string { return c.principal }

// CallbackNeeded reports whether the client asked for a callback channel.
func (c *Client) CallbackNeeded() bool { return c.callbackNeeded }

// CreatedAt returns the registration time.
func (c *Client) CreatedAt() time.Time { return c.createdAt }

// LeaseDuration returns the lease granted to this client.
func (c *Client) LeaseDuration() time.Duration { return c.leaseDuration }

// IsOwner reports whether ownerID matches the client's owner id.
func (c *Client) IsOwner(ownerID []byte) bool {
	return bytes.Equal(c.ownerID, ownerID)
}

// ============================================================================
// Lease
// ============================================================================

// LastRenewal returns the time of the most recent lease renewal.
func (c *Client) LastRenewal() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRenewal
}

// UpdateLeaseTime advances the lease clock to now.
func (c *Client) UpdateLeaseTime() {
	c.mu.Lock()
	c.lastRenewal = time.Now()
	c.mu.Unlock()
}

// LeaseExpired reports whether the lease has not been renewed for longer
// than the lease duration.
func (c *Client) LeaseExpired() bool {
	return c.RemainingLease() == 0
}

// RemainingLease returns how much of the lease is left, never negative.
func (c *Client) RemainingLease() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return max(c.leaseDuration-time.Since(c.lastRenewal), 0)
}

// renewWithStateid validates sid against the granted state it addresses and
// only then advances the lease clock.
func (c *Client) renewWithStateid(sid *types.Stateid4) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[sid.Other]
	if !ok {
		return stateErrorf(ErrBadStateid, "no state %x for client %x", sid.Other, c.id)
	}
	if err := st.check(sid); err != nil {
		return err
	}

	c.lastRenewal = time.Now()
	return nil
}

// ============================================================================
// Confirmation
// ============================================================================

// Confirm marks the client registration as confirmed.
func (c *Client) Confirm() {
	c.mu.Lock()
	c.confirmed = true
	c.mu.Unlock()
}

// IsConfirmed reports whether the registration has been confirmed.
func (c *Client) IsConfirmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

// ============================================================================
// Granted State
// ============================================================================

// CreateState grants a new unconfirmed state at generation 1. release, if
// non-nil, runs when the state is released or the client is disposed.
func (c *Client) CreateState(release func() error) types.Stateid4 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextState++
	st := &GrantedState{
		Stateid: types.NewStateid4(c.id, c.nextState, 1),
		release: release,
	}
	c.states[st.Stateid.Other] = st
	return st.Stateid
}

// ConfirmState moves the state addressed by sid to the confirmed variant.
func (c *Client) ConfirmState(sid *types.Stateid4) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[sid.Other]
	if !ok {
		return stateErrorf(ErrBadStateid, "no state %x", sid.Other)
	}
	st.Confirmed = true
	return nil
}

// BumpState advances the generation of a confirmed state and returns the
// new stateid. The presented stateid must be current.
func (c *Client) BumpState(sid *types.Stateid4) (types.Stateid4, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[sid.Other]
	if !ok {
		return types.Stateid4{}, stateErrorf(ErrBadStateid, "no state %x", sid.Other)
	}
	if err := st.check(sid); err != nil {
		return types.Stateid4{}, err
	}

	st.Stateid.Seqid++
	if st.Stateid.Seqid == 0 {
		// seqid 0 is reserved for "current" in NFSv4.1
		st.Stateid.Seqid = 1
	}
	return st.Stateid, nil
}

// State returns a copy of the state addressed by sid.
func (c *Client) State(sid *types.Stateid4) (GrantedState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[sid.Other]
	if !ok {
		return GrantedState{}, stateErrorf(ErrBadStateid, "no state %x", sid.Other)
	}
	return GrantedState{Stateid: st.Stateid, Confirmed: st.Confirmed}, nil
}

// ReleaseState drops the state addressed by sid and runs its release hook.
func (c *Client) ReleaseState(sid *types.Stateid4) error {
	c.mu.Lock()
	st, ok := c.states[sid.Other]
	if ok {
		delete(c.states, sid.Other)
	}
	c.mu.Unlock()

	if !ok {
		return stateErrorf(ErrBadStateid, "no state %x", sid.Other)
	}
	if st.release != nil {
		return st.release()
	}
	return nil
}

// StateCount returns the number of granted states.
func (c *Client) StateCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

// ============================================================================
// Sessions
// ============================================================================

// Sessions returns a snapshot of the sessions owned by the client.
func (c *Client) Sessions() []*Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, s)
	}
	return out
}

func (c *Client) addSession(s *Session) {
	c.mu.Lock()
	c.sessions[s.id] = s
	c.mu.Unlock()
}

// removeSession unlinks the session and returns how many remain. linked is
// false if the session was no longer attached to c.
func (c *Client) removeSession(id types.SessionId4) (remaining int, linked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, linked = c.sessions[id]
	delete(c.sessions, id)
	return len(c.sessions), linked
}

// ============================================================================
// Disposal
// ============================================================================

// IsDisposed reports whether the client's resources have been released.
func (c *Client) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// dispose releases every granted state exactly once. Failures are logged
// and do not stop the remaining releases.
func (c *Client) dispose() {
	c.disposeOnce.Do(func() {
		c.mu.Lock()
		states := c.states
		c.states = make(map[[types.NFS4_OTHER_SIZE]byte]*GrantedState)
		c.disposed = true
		c.mu.Unlock()

		for _, st := range states {
			if st.release == nil {
				continue
			}
			if err := st.release(); err != nil {
				logger.Warn("Failed to release client state",
					logger.ClientID(c.id),
					logger.Stateid(st.Stateid),
					logger.Err(err))
			}
		}
		logger.Debug("Client disposed", logger.ClientID(c.id), "states", len(states))
	})
}
