package logger

import (
	"context"
	"strconv"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds request-scoped logging fields. The admin API attaches one
// per request; state operations enrich it with client and session ids.
type LogContext struct {
	RequestID string    // chi request id
	Operation string    // logical operation (evict_client, destroy_session, ...)
	ClientIP  string    // remote address without port
	ClientID  uint64    // NFSv4 client id, 0 when unknown
	SessionID string    // hex session id
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a LogContext for a request coming from clientIP.
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithOperation returns a copy with the operation set
func (lc *LogContext) WithOperation(op string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Operation = op
	}
	return c
}

// WithClient returns a copy bound to an NFSv4 client id.
func (lc *LogContext) WithClient(id uint64) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.ClientID = id
	}
	return c
}

// WithSession returns a copy bound to a session id.
func (lc *LogContext) WithSession(id string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.SessionID = id
	}
	return c
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

// FormatClientID renders a client id the way the admin API and logs show it.
func FormatClientID(id uint64) string {
	return strconv.FormatUint(id, 16)
}
