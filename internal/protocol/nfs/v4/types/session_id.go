package types

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ============================================================================
// SessionId4 - Session Identifier (16 bytes, fixed-size opaque)
// ============================================================================

// SessionId4 is an NFSv4.1 session identifier (opaque, 16 bytes).
type SessionId4 [NFS4_SESSIONID_SIZE]byte

// NewSessionId4 returns a random session id.
func NewSessionId4() (SessionId4, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return SessionId4{}, fmt.Errorf("generate session id: %w", err)
	}
	return SessionId4(u), nil
}

// ParseSessionId4 accepts the 32-character hex form produced by String as
// well as the dashed UUID form.
func ParseSessionId4(s string) (SessionId4, error) {
	var id SessionId4
	if len(s) == hex.EncodedLen(NFS4_SESSIONID_SIZE) {
		if _, err := hex.Decode(id[:], []byte(s)); err != nil {
			return id, fmt.Errorf("invalid session id %q: %w", s, err)
		}
		return id, nil
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return id, fmt.Errorf("invalid session id %q: %w", s, err)
	}
	return SessionId4(u), nil
}

// String returns the session ID as a hex string.
func (s SessionId4) String() string {
	return hex.EncodeToString(s[:])
}

// ============================================================================
// Verifier4
// ============================================================================

// Verifier4 is the 8-byte opaque verifier a client presents with its owner id
// to distinguish reboots.
type Verifier4 [NFS4_VERIFIER_SIZE]byte

// String returns the verifier as a hex string.
func (v Verifier4) String() string {
	return hex.EncodeToString(v[:])
}
