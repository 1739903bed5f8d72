package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for state server spans.
const (
	AttrClientID   = "nfs4.client_id"
	AttrClientAddr = "client.address"
	AttrSessionID  = "nfs4.session_id"
	AttrStatus     = "nfs4.status"
	AttrExpired    = "nfs4.expired_sessions"

	AttrHTTPMethod = "http.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.status_code"
)

// Span names.
const (
	SpanAdminRequest = "admin.request"
	SpanStateSweep   = "state.sweep"
)

// ClientID returns an attribute for a client ID, rendered as 16 hex digits.
func ClientID(id uint64) attribute.KeyValue {
	return attribute.String(AttrClientID, fmt.Sprintf("%016x", id))
}

func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// SessionID returns an attribute for a session ID in its hex form.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// Status returns an attribute for an NFS4ERR_* status name.
func Status(name string) attribute.KeyValue {
	return attribute.String(AttrStatus, name)
}

// ExpiredSessions returns an attribute for the number of sessions a sweep
// expired.
func ExpiredSessions(n int) attribute.KeyValue {
	return attribute.Int(AttrExpired, n)
}

func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}
