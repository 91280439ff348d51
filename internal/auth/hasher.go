// Package auth provides the authentication primitives: password
// hashing, opaque session tokens, and the request-level credential
// policy. It has no knowledge of HTTP handlers or storage.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// HasherParams are the argon2id cost parameters. They are fixed at
// process start and never derived from request input.
type HasherParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultHasherParams returns the tuned production parameters
// (3 iterations, 64 MiB, 2 lanes).
func DefaultHasherParams() HasherParams {
	return HasherParams{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 2,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// Hasher hashes and verifies passwords using argon2id.
type Hasher struct {
	params HasherParams
}

// NewHasher creates a Hasher with the given parameters.
func NewHasher(params HasherParams) *Hasher {
	return &Hasher{params: params}
}

// Hash produces a PHC-encoded argon2id hash of the password with a
// fresh random salt, e.g.
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify reports whether the password matches the encoded hash.
// The cost parameters embedded in the hash are used for
// recomputation, so old hashes stay verifiable after a parameter
// bump. Malformed hashes verify as false rather than erroring;
// callers treat them the same as a wrong password.
func (h *Hasher) Verify(password, encodedHash string) bool {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1
}

func decodeHash(encodedHash string) (HasherParams, []byte, []byte, error) {
	var params HasherParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("parse version: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &threads); err != nil {
		return params, nil, nil, fmt.Errorf("parse cost parameters: %w", err)
	}
	if threads == 0 || threads > 255 {
		return params, nil, nil, fmt.Errorf("parallelism %d out of range", threads)
	}
	params.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) == 0 {
		return params, nil, nil, fmt.Errorf("empty key")
	}

	return params, salt, key, nil
}
