package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionId4Unique(t *testing.T) {
	seen := make(map[SessionId4]struct{})
	for range 100 {
		id, err := NewSessionId4()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate session id %s", id)
		seen[id] = struct{}{}
	}
}

func TestParseSessionId4(t *testing.T) {
	id, err := NewSessionId4()
	require.NoError(t, err)

	t.Run("Hex", func(t *testing.T) {
		parsed, err := ParseSessionId4(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("UUID", func(t *testing.T) {
		parsed, err := ParseSessionId4(uuid.UUID(id).String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "abc", "zz" + id.String()[2:], "not-a-session"} {
			_, err := ParseSessionId4(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestVerifier4String(t *testing.T) {
	v := Verifier4{0xde, 0xad, 0xbe, 0xef, 0, 0, 0, 1}
	assert.Equal(t, "deadbeef00000001", v.String())
}
