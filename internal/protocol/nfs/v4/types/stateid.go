package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// ============================================================================
// Stateid4 (State Identifier)
// ============================================================================

// Stateid4 represents an NFSv4 state identifier.
//
//	struct stateid4 {
//	    uint32_t seqid;
//	    opaque   other[12];
//	};
//
// Seqid is the generation of the granted state. The server lays out Other as
// an 8-byte big-endian client id followed by a 4-byte per-client counter, so
// the owning client can be recovered from the token alone.
type Stateid4 struct {
	Seqid uint32
	Other [NFS4_OTHER_SIZE]byte
}

// NewStateid4 builds a stateid owned by clientID.
func NewStateid4(clientID uint64, counter, seqid uint32) Stateid4 {
	var sid Stateid4
	sid.Seqid = seqid
	binary.BigEndian.PutUint64(sid.Other[0:8], clientID)
	binary.BigEndian.PutUint32(sid.Other[8:12], counter)
	return sid
}

// ClientID returns the client id embedded in the first eight bytes of Other.
func (s *Stateid4) ClientID() uint64 {
	return binary.BigEndian.Uint64(s.Other[0:8])
}

// Counter returns the per-client counter stored after the client id.
func (s *Stateid4) Counter() uint32 {
	return binary.BigEndian.Uint32(s.Other[8:12])
}

// IsSpecialStateid returns true for the anonymous (seqid=0, other all zeros)
// and READ bypass (seqid=0xFFFFFFFF, other all ones) stateids.
func (s *Stateid4) IsSpecialStateid() bool {
	switch s.Seqid {
	case 0:
		return s.otherIs(0x00)
	case 0xFFFFFFFF:
		return s.otherIs(0xFF)
	}
	return false
}

func (s *Stateid4) otherIs(b byte) bool {
	for _, v := range s.Other {
		if v != b {
			return false
		}
	}
	return true
}

// String renders the stateid as "seqid:other-hex".
func (s Stateid4) String() string {
	return fmt.Sprintf("%d:%s", s.Seqid, hex.EncodeToString(s.Other[:]))
}

// DecodeStateid4 reads an XDR-encoded stateid4.
func DecodeStateid4(r io.Reader) (*Stateid4, error) {
	var sid Stateid4
	if _, err := xdr.Unmarshal(r, &sid); err != nil {
		return nil, fmt.Errorf("decode stateid4: %w", err)
	}
	return &sid, nil
}

// EncodeStateid4 writes sid in XDR form (16 bytes, no padding).
func EncodeStateid4(w io.Writer, sid *Stateid4) error {
	if _, err := xdr.Marshal(w, sid); err != nil {
		return fmt.Errorf("encode stateid4: %w", err)
	}
	return nil
}
