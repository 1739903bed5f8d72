package state

import (
	"sync/atomic"
	"time"

	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

// Session represents an NFSv4.1 session per RFC 8881 Section 2.10.
//
// A Session is scoped to exactly one Client. The back-reference does not keep
// the client registered: once the client is removed, the session is gone from
// the cache too.
//
// A Session is created by the protocol layer and becomes live only after
// StateHandler.AddSession accepts it.
type Session struct {
	id        types.SessionId4
	client    *Client
	createdAt time.Time

	// lastUsed is unix nanoseconds of the most recent lookup. Informational;
	// expiry is driven by the session cache.
	lastUsed atomic.Int64
}

// NewSession creates a session with a random id for client.
func NewSession(client *Client) (*Session, error) {
	id, err := types.NewSessionId4()
	if err != nil {
		return nil, err
	}
	return NewSessionWithID(id, client), nil
}

// NewSessionWithID creates a session with a caller-chosen id.
func NewSessionWithID(id types.SessionId4, client *Client) *Session {
	now := time.Now()
	s := &Session{id: id, client: client, createdAt: now}
	s.lastUsed.Store(now.UnixNano())
	return s
}

// ID returns the session id.
func (s *Session) ID() types.SessionId4 { return s.id }

// Client returns the owning client.
func (s *Session) Client() *Client { return s.client }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastUsed returns when the session was last looked up.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

func (s *Session) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

func (s *Session) String() string {
	return s.id.String()
}
