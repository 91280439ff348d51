// Package repository implements the domain data-access contracts on
// PostgreSQL via pgx. Every operation is a single statement; no
// multi-step transaction spans a caller-visible suspension point.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okorotenko/tasklist/internal/core/domain"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it too, so repository tests run without a server.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxUserRepository implements domain.UserRepository using pgx.
type PgxUserRepository struct {
	db DB
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db DB) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

// Create inserts a new user and returns the stored row. A unique
// constraint violation on login is translated to
// domain.ErrDuplicateLogin; under concurrent registration the
// constraint is the sole arbiter of which insert wins.
func (r *PgxUserRepository) Create(ctx context.Context, login, passwordHash string) (*domain.UserRow, error) {
	query := `
		INSERT INTO users (login, password_hash)
		VALUES ($1, $2)
		RETURNING id, login, password_hash, created_at
	`

	var row domain.UserRow
	err := r.db.QueryRow(ctx, query, login, passwordHash).Scan(
		&row.ID, &row.Login, &row.PasswordHash, &row.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrDuplicateLogin
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &row, nil
}

// GetByLogin returns the user matching the given login.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByLogin(ctx context.Context, login string) (*domain.UserRow, error) {
	query := `SELECT id, login, password_hash, created_at FROM users WHERE login = $1`

	var row domain.UserRow
	err := r.db.QueryRow(ctx, query, login).Scan(
		&row.ID, &row.Login, &row.PasswordHash, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &row, nil
}
