package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateid4ClientIDLayout(t *testing.T) {
	sid := NewStateid4(0x0102030405060708, 0x0a0b0c0d, 7)

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, sid.Other[0:8], "client id is big-endian at offset 0")
	assert.Equal(t, []byte{0x0a, 0x0b, 0x0c, 0x0d}, sid.Other[8:12])
	assert.Equal(t, uint64(0x0102030405060708), sid.ClientID())
	assert.Equal(t, uint32(0x0a0b0c0d), sid.Counter())
	assert.Equal(t, uint32(7), sid.Seqid)
}

func TestStateid4XDRWireFormat(t *testing.T) {
	sid := NewStateid4(42, 3, 9)

	var buf bytes.Buffer
	require.NoError(t, EncodeStateid4(&buf, &sid))

	wire := buf.Bytes()
	require.Len(t, wire, 16)
	assert.Equal(t, []byte{0, 0, 0, 9}, wire[0:4], "seqid first, big-endian")
	assert.Equal(t, sid.Other[:], wire[4:16])

	decoded, err := DecodeStateid4(bytes.NewReader(wire))
	require.NoError(t, err)
	assert.Equal(t, sid, *decoded)
	assert.Equal(t, uint64(42), decoded.ClientID())
}

func TestDecodeStateid4Short(t *testing.T) {
	_, err := DecodeStateid4(bytes.NewReader([]byte{0, 0, 0, 1, 0xff}))
	assert.Error(t, err)
}

func TestStateid4IsSpecial(t *testing.T) {
	anon := Stateid4{}
	assert.True(t, anon.IsSpecialStateid())

	bypass := Stateid4{Seqid: 0xFFFFFFFF}
	for i := range bypass.Other {
		bypass.Other[i] = 0xFF
	}
	assert.True(t, bypass.IsSpecialStateid())

	regular := NewStateid4(1, 1, 1)
	assert.False(t, regular.IsSpecialStateid())

	zeroSeqNonZeroOther := NewStateid4(1, 0, 0)
	assert.False(t, zeroSeqNonZeroOther.IsSpecialStateid())
}

func TestStateid4String(t *testing.T) {
	sid := NewStateid4(1, 2, 5)
	assert.Equal(t, "5:000000000000000100000002", sid.String())
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "NFS4ERR_BAD_STATEID", StatusName(NFS4ERR_BAD_STATEID))
	assert.Equal(t, "NFS4ERR_BADSESSION", StatusName(NFS4ERR_BADSESSION))
	assert.Equal(t, "NFS4ERR_99", StatusName(99))
}
