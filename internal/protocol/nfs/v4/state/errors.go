package state

import (
	"errors"
	"fmt"

	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

// ============================================================================
// NFS4StateError
// ============================================================================

// NFS4StateError is an error type that carries an NFS4 status code.
// Protocol handlers map it straight onto the wire status.
type NFS4StateError struct {
	Status  uint32
	Message string
}

func (e *NFS4StateError) Error() string {
	return e.Message
}

// Is matches any NFS4StateError carrying the same status, so errors built
// with a detailed message still satisfy errors.Is against the sentinels.
func (e *NFS4StateError) Is(target error) bool {
	other, ok := target.(*NFS4StateError)
	return ok && e.Status == other.Status
}

// Sentinel state errors.
var (
	ErrStaleClientID = &NFS4StateError{Status: types.NFS4ERR_STALE_CLIENTID, Message: "stale client id"}
	ErrBadStateid    = &NFS4StateError{Status: types.NFS4ERR_BAD_STATEID, Message: "bad stateid"}
	ErrOldStateid    = &NFS4StateError{Status: types.NFS4ERR_OLD_STATEID, Message: "old stateid"}
	ErrBadSession    = &NFS4StateError{Status: types.NFS4ERR_BADSESSION, Message: "bad session"}
)

// ErrNotRunning is returned by every StateHandler operation after Shutdown.
var ErrNotRunning = errors.New("NFS state handler not running")

func stateErrorf(base *NFS4StateError, format string, args ...any) error {
	return &NFS4StateError{
		Status:  base.Status,
		Message: base.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// IsBadStateToken reports whether err rejects a presented stateid, either
// because it does not resolve or because its generation is superseded.
func IsBadStateToken(err error) bool {
	return errors.Is(err, ErrBadStateid) || errors.Is(err, ErrOldStateid)
}

// StatusOf maps an error returned by this package to an NFS4 status code.
// Unknown errors, including ErrNotRunning, map to NFS4ERR_SERVERFAULT.
func StatusOf(err error) uint32 {
	if err == nil {
		return types.NFS4_OK
	}
	var se *NFS4StateError
	if errors.As(err, &se) {
		return se.Status
	}
	return types.NFS4ERR_SERVERFAULT
}
