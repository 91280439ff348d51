package domain

import (
	"context"
	"time"
)

// SessionRepository defines the data-access contract for session
// operations. Sessions are keyed by token fingerprint; raw tokens
// never reach this layer.
type SessionRepository interface {
	// Create inserts a new session for the given user.
	Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error

	// GetUserByTokenHash looks up the session by fingerprint, joined to
	// its user, excluding sessions whose expiry is not strictly after
	// the given instant. Returns (nil, nil) on no match or expiry —
	// that is "unauthenticated", not a failure.
	GetUserByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*UserRow, error)

	// DeleteByTokenHash removes the matching session, if any.
	// Deleting a nonexistent session is a no-op, not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}
