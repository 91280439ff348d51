package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/okorotenko/tasklist/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgx.
type PgxSessionRepository struct {
	db DB
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(db DB) *PgxSessionRepository {
	return &PgxSessionRepository{db: db}
}

// Create inserts a new session for the given user.
func (r *PgxSessionRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	query := `INSERT INTO sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetUserByTokenHash looks up the session by fingerprint joined to its
// user. The expiry check is part of the query: a session is valid iff
// expires_at is strictly after now. Returns (nil, nil) on no match.
func (r *PgxSessionRepository) GetUserByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.UserRow, error) {
	query := `
		SELECT u.id, u.login, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token_hash = $1 AND s.expires_at > $2
	`

	var row domain.UserRow
	err := r.db.QueryRow(ctx, query, tokenHash, now).Scan(
		&row.ID, &row.Login, &row.PasswordHash, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	return &row, nil
}

// DeleteByTokenHash removes the matching session. Zero rows affected
// is fine; revocation is idempotent.
func (r *PgxSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM sessions WHERE token_hash = $1`
	if _, err := r.db.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
