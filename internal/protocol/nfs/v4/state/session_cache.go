package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

// Reasons a session leaves the cache. Used in logs and metric labels.
const (
	ReasonExpired       = "expired"
	ReasonClientRequest = "client_request"
	ReasonClientRemoved = "client_removed"
)

type evictedSession struct {
	session *Session
	reason  string
}

// sessionCache maps session ids to live sessions with idle expiry.
//
// The cache is unbounded: a session leaves it only through idle expiry or
// explicit invalidation. Expirations are queued, either from the deletion
// callback or by expire, and handed back by sweep or drain so the caller can
// detach them after the cache's maintenance has finished. The same session
// may be queued twice; detaching is idempotent. Explicit invalidations of
// live sessions are not queued: the caller already holds the session.
type sessionCache struct {
	cache *otter.Cache[types.SessionId4, *Session]
	idle  time.Duration

	mu      sync.Mutex
	evicted []evictedSession
}

// sizeHint only presizes the table.
func newSessionCache(sizeHint int, idle time.Duration) (*sessionCache, error) {
	sc := &sessionCache{idle: idle}

	c, err := otter.New(&otter.Options[types.SessionId4, *Session]{
		InitialCapacity:  sizeHint,
		ExpiryCalculator: otter.ExpiryAccessing[types.SessionId4, *Session](idle),
		OnDeletion:       sc.onDeletion,
		// run deletion callbacks inline so sweep observes them on return
		Executor: func(fn func()) { fn() },
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	sc.cache = c
	return sc, nil
}

func (sc *sessionCache) onDeletion(e otter.DeletionEvent[types.SessionId4, *Session]) {
	if e.Cause != otter.CauseExpiration {
		return
	}

	sc.enqueue(e.Value)
}

func (sc *sessionCache) enqueue(s *Session) {
	sc.mu.Lock()
	sc.evicted = append(sc.evicted, evictedSession{session: s, reason: ReasonExpired})
	sc.mu.Unlock()
}

// get looks up a session and refreshes its idle clock. A session found past
// its idle timeout is removed by the lookup and queued for drain.
func (sc *sessionCache) get(id types.SessionId4) (*Session, bool) {
	s, ok := sc.cache.GetIfPresent(id)
	if !ok {
		sc.expire(id)
		return nil, false
	}
	s.touch()
	return s, true
}

// expire removes id if the cache still holds it past its idle timeout and
// queues it. The cache's own timer wheel only fires on coarse ticks, so this
// is how lookups and sweeps observe an expiry as soon as it is due.
func (sc *sessionCache) expire(id types.SessionId4) bool {
	if _, live := sc.cache.GetEntryQuietly(id); live {
		return false
	}
	s, ok := sc.cache.Invalidate(id)
	if ok {
		sc.enqueue(s)
	}
	return ok
}

func (sc *sessionCache) set(s *Session) {
	sc.cache.Set(s.id, s)
}

// invalidate removes a live session without queueing it for detach. A
// session already past its idle timeout is expired instead and reported
// absent.
func (sc *sessionCache) invalidate(id types.SessionId4) (*Session, bool) {
	if _, live := sc.cache.GetEntryQuietly(id); !live {
		sc.expire(id)
		return nil, false
	}
	return sc.cache.Invalidate(id)
}

// sweep runs pending cache maintenance and returns every session the cache
// evicted since the previous sweep. Each queued entry is returned once.
func (sc *sessionCache) sweep() []evictedSession {
	sc.cache.CleanUp()
	return sc.drain()
}

func (sc *sessionCache) drain() []evictedSession {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := sc.evicted
	sc.evicted = nil
	return out
}

func (sc *sessionCache) len() int {
	return sc.cache.EstimatedSize()
}
