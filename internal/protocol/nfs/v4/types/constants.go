package types

import "strconv"

// ============================================================================
// NFS4 Status Codes (RFC 7530 Section 13, RFC 8881 Section 15)
// ============================================================================
//
// Only the codes the state layer can produce are listed here.

const (
	NFS4_OK                = 0
	NFS4ERR_SERVERFAULT    = 10006 // Internal server error
	NFS4ERR_DELAY          = 10008 // Retry later
	NFS4ERR_EXPIRED        = 10011 // Lease/state expired
	NFS4ERR_GRACE          = 10013 // Grace period active
	NFS4ERR_STALE_CLIENTID = 10022 // Client ID is stale
	NFS4ERR_STALE_STATEID  = 10023 // State ID is stale
	NFS4ERR_OLD_STATEID    = 10024 // State ID is outdated
	NFS4ERR_BAD_STATEID    = 10025 // Invalid state ID
	NFS4ERR_BADSESSION     = 10052 // Invalid session ID
)

var statusNames = map[uint32]string{
	NFS4_OK:                "NFS4_OK",
	NFS4ERR_SERVERFAULT:    "NFS4ERR_SERVERFAULT",
	NFS4ERR_DELAY:          "NFS4ERR_DELAY",
	NFS4ERR_EXPIRED:        "NFS4ERR_EXPIRED",
	NFS4ERR_GRACE:          "NFS4ERR_GRACE",
	NFS4ERR_STALE_CLIENTID: "NFS4ERR_STALE_CLIENTID",
	NFS4ERR_STALE_STATEID:  "NFS4ERR_STALE_STATEID",
	NFS4ERR_OLD_STATEID:    "NFS4ERR_OLD_STATEID",
	NFS4ERR_BAD_STATEID:    "NFS4ERR_BAD_STATEID",
	NFS4ERR_BADSESSION:     "NFS4ERR_BADSESSION",
}

// StatusName returns the symbolic name of an NFS4 status code.
func StatusName(status uint32) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return "NFS4ERR_" + strconv.FormatUint(uint64(status), 10)
}

// ============================================================================
// Sizes
// ============================================================================

const (
	// NFS4_OTHER_SIZE is the size of the opaque "other" field of a stateid4.
	NFS4_OTHER_SIZE = 12

	// NFS4_VERIFIER_SIZE is the size of a verifier4.
	NFS4_VERIFIER_SIZE = 8

	// NFS4_SESSIONID_SIZE is the size of a session identifier (RFC 8881 Section 2.10.3).
	NFS4_SESSIONID_SIZE = 16

	// NFS4_OPAQUE_LIMIT bounds client-supplied opaque ids such as the owner id.
	NFS4_OPAQUE_LIMIT = 1024
)
