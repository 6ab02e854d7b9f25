package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteToken(t *testing.T) {
	raw, digest, err := GenerateInviteToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, DigestInviteToken(raw), digest)
}

func TestGenerateInviteTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		raw, _, err := GenerateInviteToken()
		require.NoError(t, err)
		_, dup := seen[raw]
		require.False(t, dup)
		seen[raw] = struct{}{}
	}
}

func TestDigestInviteTokenDeterministic(t *testing.T) {
	assert.Equal(t, DigestInviteToken("abc"), DigestInviteToken("abc"))
	assert.NotEqual(t, DigestInviteToken("abc"), DigestInviteToken("abd"))
}
