package state

import (
	"errors"
	"testing"
	"time"

	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

func newBareClient(lease time.Duration) *Client {
	return newClient(0xabcdef0000000001, nil, nil, []byte("owner"), types.Verifier4{}, "", false, lease)
}

// ============================================================================
// Granted State
// ============================================================================

func TestCreateState_Layout(t *testing.T) {
	c := newBareClient(time.Minute)

	a := c.CreateState(nil)
	b := c.CreateState(nil)

	if a.ClientID() != c.ID() || b.ClientID() != c.ID() {
		t.Fatalf("stateids must embed the client id: %x %x", a.ClientID(), b.ClientID())
	}
	if a.Other == b.Other {
		t.Fatal("each state needs its own other field")
	}
	if a.Seqid != 1 {
		t.Fatalf("initial generation = %d, want 1", a.Seqid)
	}

	st, err := c.State(&a)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.Confirmed {
		t.Fatal("new state must be unconfirmed")
	}
	if c.StateCount() != 2 {
		t.Fatalf("StateCount = %d", c.StateCount())
	}
}

func TestConfirmAndBumpState(t *testing.T) {
	c := newBareClient(time.Minute)
	sid := c.CreateState(nil)

	if _, err := c.BumpState(&sid); !errors.Is(err, ErrBadStateid) {
		t.Fatalf("bumping unconfirmed state: err = %v", err)
	}

	if err := c.ConfirmState(&sid); err != nil {
		t.Fatalf("ConfirmState: %v", err)
	}
	next, err := c.BumpState(&sid)
	if err != nil {
		t.Fatalf("BumpState: %v", err)
	}
	if next.Seqid != 2 || next.Other != sid.Other {
		t.Fatalf("bumped stateid = %s", next)
	}

	st, _ := c.State(&next)
	if !st.Confirmed || st.Generation() != 2 {
		t.Fatalf("state after bump = %+v", st)
	}

	if _, err := c.BumpState(&sid); !errors.Is(err, ErrOldStateid) {
		t.Fatalf("bump with superseded stateid: err = %v", err)
	}
}

func TestReleaseState(t *testing.T) {
	c := newBareClient(time.Minute)

	calls := 0
	sid := c.CreateState(func() error { calls++; return nil })

	if err := c.ReleaseState(&sid); err != nil {
		t.Fatalf("ReleaseState: %v", err)
	}
	if calls != 1 {
		t.Fatalf("release hook ran %d times", calls)
	}
	if err := c.ReleaseState(&sid); !errors.Is(err, ErrBadStateid) {
		t.Fatalf("second release: err = %v", err)
	}

	c.dispose()
	if calls != 1 {
		t.Fatal("released state must not be released again on dispose")
	}
}

func TestDispose_Once(t *testing.T) {
	c := newBareClient(time.Minute)

	calls := 0
	c.CreateState(func() error { calls++; return nil })
	c.CreateState(nil)

	c.dispose()
	c.dispose()

	if calls != 1 {
		t.Fatalf("release hook ran %d times, want 1", calls)
	}
	if !c.IsDisposed() || c.StateCount() != 0 {
		t.Fatal("dispose must clear granted state")
	}
}

// ============================================================================
// Lease
// ============================================================================

func TestLeaseExpiry(t *testing.T) {
	c := newBareClient(30 * time.Millisecond)

	if c.LeaseExpired() {
		t.Fatal("fresh lease reported expired")
	}
	if r := c.RemainingLease(); r <= 0 || r > 30*time.Millisecond {
		t.Fatalf("RemainingLease = %v", r)
	}

	time.Sleep(40 * time.Millisecond)
	if !c.LeaseExpired() {
		t.Fatal("lease should have expired")
	}

	c.UpdateLeaseTime()
	if c.LeaseExpired() {
		t.Fatal("renewed lease reported expired")
	}
}

func TestConfirmClient(t *testing.T) {
	c := newBareClient(time.Minute)
	c.Confirm()
	if !c.IsConfirmed() {
		t.Fatal("Confirm had no effect")
	}
}

func TestOwnerIDIsCopied(t *testing.T) {
	owner := []byte("peer1")
	c := newClient(1, nil, nil, owner, types.Verifier4{}, "", false, time.Minute)

	owner[0] = 'X'
	if !c.IsOwner([]byte("peer1")) {
		t.Fatal("client must keep its own copy of the owner id")
	}

	got := c.OwnerID()
	got[0] = 'Y'
	if !c.IsOwner([]byte("peer1")) {
		t.Fatal("OwnerID must return a copy")
	}
}

// ============================================================================
// Errors
// ============================================================================

func TestStateErrors(t *testing.T) {
	err := stateErrorf(ErrBadStateid, "client %x", 7)
	if !errors.Is(err, ErrBadStateid) {
		t.Fatal("detailed error must match its sentinel")
	}
	if errors.Is(err, ErrOldStateid) {
		t.Fatal("different status must not match")
	}
	if err.Error() != "bad stateid: client 7" {
		t.Fatalf("message = %q", err.Error())
	}

	tests := []struct {
		err  error
		want uint32
	}{
		{nil, types.NFS4_OK},
		{ErrStaleClientID, types.NFS4ERR_STALE_CLIENTID},
		{err, types.NFS4ERR_BAD_STATEID},
		{ErrOldStateid, types.NFS4ERR_OLD_STATEID},
		{ErrBadSession, types.NFS4ERR_BADSESSION},
		{ErrNotRunning, types.NFS4ERR_SERVERFAULT},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
