package domain

import (
	"context"
	"time"
)

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user and returns the stored row.
	// Returns ErrDuplicateLogin when the login is already taken.
	Create(ctx context.Context, login, passwordHash string) (*UserRow, error)

	// GetByLogin returns the user matching the given login.
	// Returns (nil, nil) when no user is found.
	GetByLogin(ctx context.Context, login string) (*UserRow, error)
}
