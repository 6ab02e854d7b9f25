package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// inviteTokenBytes is the entropy of a raw invite token (hex-encoded to 64 chars).
const inviteTokenBytes = 32

// GenerateInviteToken returns a fresh high-entropy invite token and its
// storage digest. The raw token is delivered to the invitee by email and is
// never persisted.
func GenerateInviteToken() (raw, digest string, err error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, DigestInviteToken(raw), nil
}

// DigestInviteToken derives the one-way digest stored and looked up in place
// of the raw token.
func DigestInviteToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
