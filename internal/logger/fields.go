package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging. Use these keys consistently so
// that log aggregation can join events about the same client or session.
const (
	// ========================================================================
	// Request
	// ========================================================================
	KeyRequestID = "request_id" // admin API request id
	KeyOperation = "operation"  // logical operation name
	KeyMethod    = "method"     // HTTP method
	KeyPath      = "path"       // HTTP path
	KeyStatus    = "status"     // HTTP or NFS4 status code
	KeyClientIP  = "client_ip"  // remote address

	// ========================================================================
	// NFSv4 state
	// ========================================================================
	KeyClientID  = "client_id"  // server-assigned client id (hex)
	KeyOwnerID   = "owner_id"   // client-supplied owner id (hex)
	KeySessionID = "session_id" // 16-byte session id (hex)
	KeyStateid   = "stateid"    // seqid:other
	KeySessions  = "sessions"   // number of sessions
	KeyClients   = "clients"    // number of clients
	KeyReason    = "reason"     // why a session or client went away
	KeyLease     = "lease"      // lease duration

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyAddress    = "address" // listen address
)

// ClientID returns a slog.Attr for an NFSv4 client id
func ClientID(id uint64) slog.Attr {
	return slog.String(KeyClientID, FormatClientID(id))
}

// OwnerID returns a slog.Attr for a client owner id formatted as hex
func OwnerID(owner []byte) slog.Attr {
	return slog.String(KeyOwnerID, fmt.Sprintf("%x", owner))
}

// SessionID returns a slog.Attr for session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// Stateid returns a slog.Attr for a stateid rendered by its String method.
func Stateid(s fmt.Stringer) slog.Attr {
	return slog.String(KeyStateid, s.String())
}

// Reason returns a slog.Attr describing why something was removed.
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
