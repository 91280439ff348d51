package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okorotenko/tasklist/internal/auth"
	"github.com/okorotenko/tasklist/internal/core/domain"
	"github.com/okorotenko/tasklist/middleware"
)

// AuthService implements the authentication business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	hasher   *auth.Hasher

	// cookieName is the fallback token source when no Authorization
	// header is present.
	cookieName string

	// now is swapped out in tests to drive session expiry.
	now func() time.Time
}

// NewAuthService creates a new AuthService with the given repository
// dependencies, password hasher and session cookie name.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, hasher *auth.Hasher, cookieName string) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		cookieName: cookieName,
		now:        time.Now,
	}
}

// Register validates the credentials, hashes the password and inserts
// the user. A duplicate login surfaces as ErrLoginTaken; the store's
// unique constraint arbitrates concurrent registration, so there is
// no lookup-then-insert race.
func (s *AuthService) Register(ctx context.Context, req domain.Credentials) (*domain.UserOut, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	login, err := auth.ValidateLogin(req.Login)
	if err != nil {
		return nil, fmt.Errorf("validate login: %w", err)
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("validate password: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row, err := s.users.Create(ctx, login, passwordHash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateLogin) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register user %q: %w", login, ErrLoginTaken)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return &domain.UserOut{ID: row.ID, Login: row.Login}, nil
}

// Login verifies the credentials and mints a session. An unknown
// login and a wrong password return the identical
// ErrInvalidCredentials; nothing in the outcome reveals which check
// failed. The raw token in the response exists only here and in the
// transport — the store keeps its fingerprint.
func (s *AuthService) Login(ctx context.Context, req domain.Credentials) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	login := auth.NormalizeLogin(req.Login)

	row, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil || !s.hasher.Verify(req.Password, row.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	token, err := s.createSession(ctx, row.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.AuthResponse{
		Token: token,
		User:  domain.UserOut{ID: row.ID, Login: row.Login},
	}, nil
}

// ResolveCurrentUser extracts the session token from the request
// (Authorization header first, cookie second) and resolves it to a
// user. Malformed-header and missing-token policy errors propagate;
// an unknown, expired or revoked token is ErrUnauthenticated.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, r *http.Request) (*domain.UserOut, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.resolve_current_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	token, err := auth.TokenFromRequest(r, s.cookieName, true)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.present", false))
		return nil, fmt.Errorf("extract token: %w", err)
	}

	row, err := s.sessions.GetUserByTokenHash(ctx, auth.FingerprintToken(token), s.now())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query session: %w", err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("resolve session: %w", ErrUnauthenticated)
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("session.valid", true),
	)

	return &domain.UserOut{ID: row.ID, Login: row.Login}, nil
}

// Logout revokes the session carried by the request, if any. It is
// idempotent: no token, an unknown token and an already-revoked token
// all succeed. A malformed Authorization header is still rejected —
// the header is validated before the cookie is consulted.
func (s *AuthService) Logout(ctx context.Context, r *http.Request) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	token, err := auth.TokenFromRequest(r, s.cookieName, false)
	if err != nil {
		return fmt.Errorf("extract token: %w", err)
	}
	if token == "" {
		return nil
	}

	if err := s.sessions.DeleteByTokenHash(ctx, auth.FingerprintToken(token)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("revoke session: %w", err)
	}

	span.AddEvent("session.revoked")
	return nil
}

// createSession generates an opaque token, stores its fingerprint
// with a fixed TTL and returns the raw token.
func (s *AuthService) createSession(ctx context.Context, userID int) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(auth.TokenTTL)
	if err := s.sessions.Create(ctx, userID, auth.FingerprintToken(token), expiresAt); err != nil {
		return "", err
	}

	return token, nil
}
