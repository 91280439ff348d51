package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenTTL is the fixed lifetime of a session from issuance.
const TokenTTL = 7 * 24 * time.Hour

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// NewToken generates an opaque session token: random bytes from a
// CSPRNG, URL-safe base64 without padding. The raw token is returned
// to the client exactly once and never persisted.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the deterministic SHA-256 hex digest of a
// raw token. Only the fingerprint is stored, so a leaked sessions
// table cannot be replayed without the original token. Unlike a
// password hash it is unsalted and fast: the token itself already
// carries full CSPRNG entropy, and lookups need equality.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
