package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okorotenko/tasklist/internal/auth"
	"github.com/okorotenko/tasklist/internal/core/domain"
)

const testCookieName = "auth_token"

type fakeUserRepo struct {
	nextID  int
	byLogin map[string]*domain.UserRow
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byLogin: make(map[string]*domain.UserRow)}
}

func (r *fakeUserRepo) Create(_ context.Context, login, passwordHash string) (*domain.UserRow, error) {
	if _, ok := r.byLogin[login]; ok {
		return nil, domain.ErrDuplicateLogin
	}
	r.nextID++
	row := &domain.UserRow{ID: r.nextID, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.byLogin[login] = row
	return row, nil
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.UserRow, error) {
	row, ok := r.byLogin[login]
	if !ok {
		return nil, nil
	}
	return row, nil
}

type fakeSession struct {
	userID    int
	expiresAt time.Time
}

type fakeSessionRepo struct {
	users    *fakeUserRepo
	sessions map[string]fakeSession
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{users: users, sessions: make(map[string]fakeSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	r.sessions[tokenHash] = fakeSession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeSessionRepo) GetUserByTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.UserRow, error) {
	s, ok := r.sessions[tokenHash]
	if !ok || !s.expiresAt.After(now) {
		return nil, nil
	}
	for _, row := range r.users.byLogin {
		if row.ID == s.userID {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	delete(r.sessions, tokenHash)
	return nil
}

// fastHasher keeps the full argon2id code path but with minimal cost
// so the suite stays quick.
func fastHasher() *auth.Hasher {
	return auth.NewHasher(auth.HasherParams{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32})
}

func newTestService() (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo(users)
	svc := NewAuthService(users, sessions, fastHasher(), testCookieName)
	return svc, users, sessions
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func cookieRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	return r
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and returns identity", func(t *testing.T) {
		svc, users, _ := newTestService()

		user, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)
		assert.Equal(t, "user_1", user.Login)
		assert.NotZero(t, user.ID)

		stored := users.byLogin["user_1"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "Strong1!", stored.PasswordHash)
	})

	t.Run("trims login before storing", func(t *testing.T) {
		svc, users, _ := newTestService()

		user, err := svc.Register(ctx, domain.Credentials{Login: "  user_1  ", Password: "Strong1!"})
		require.NoError(t, err)
		assert.Equal(t, "user_1", user.Login)
		assert.Contains(t, users.byLogin, "user_1")
	})

	t.Run("duplicate login is a conflict and keeps one user", func(t *testing.T) {
		svc, users, _ := newTestService()

		_, err := svc.Register(ctx, domain.Credentials{Login: "dup", Password: "Strong1!"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, domain.Credentials{Login: "dup", Password: "0ther-Strong!"})
		assert.ErrorIs(t, err, ErrLoginTaken)
		assert.Len(t, users.byLogin, 1)
	})

	t.Run("invalid login shape is rejected before hashing", func(t *testing.T) {
		svc, users, _ := newTestService()

		_, err := svc.Register(ctx, domain.Credentials{Login: "ab", Password: "Strong1!"})
		assert.ErrorIs(t, err, auth.ErrInvalidLogin)
		assert.Empty(t, users.byLogin)
	})

	t.Run("weak password is rejected with the missing list", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "weak"})

		var weak *auth.WeakPasswordError
		require.ErrorAs(t, err, &weak)
		assert.Len(t, weak.Missing, 4)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials mint a resolvable session", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		resp, err := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "user_1", resp.User.Login)

		user, err := svc.ResolveCurrentUser(ctx, bearerRequest(resp.Token))
		require.NoError(t, err)
		assert.Equal(t, resp.User, *user)
	})

	t.Run("wrong password and unknown login are indistinguishable", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		_, errWrongPassword := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Wrong-pass1"})
		_, errUnknownUser := svc.Login(ctx, domain.Credentials{Login: "nobody", Password: "Strong1!"})

		assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), "authenticate: "+ErrInvalidCredentials.Error())
		assert.Equal(t, errUnknownUser.Error(), "authenticate: "+ErrInvalidCredentials.Error())
	})

	t.Run("login input is normalized", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		resp, err := svc.Login(ctx, domain.Credentials{Login: "  user_1 ", Password: "Strong1!"})
		require.NoError(t, err)
		assert.Equal(t, "user_1", resp.User.Login)
	})

	t.Run("store keeps the fingerprint, not the token", func(t *testing.T) {
		svc, _, sessions := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		resp, err := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		_, rawStored := sessions.sessions[resp.Token]
		assert.False(t, rawStored)
		_, fingerprintStored := sessions.sessions[auth.FingerprintToken(resp.Token)]
		assert.True(t, fingerprintStored)
	})
}

func TestResolveCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cookie token resolves like a bearer token", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)
		resp, err := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		user, err := svc.ResolveCurrentUser(ctx, cookieRequest(resp.Token))
		require.NoError(t, err)
		assert.Equal(t, "user_1", user.Login)
	})

	t.Run("session expires with the clock", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)
		resp, err := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		issued := time.Now()

		// Just before expiry the session still resolves.
		svc.now = func() time.Time { return issued.Add(auth.TokenTTL - time.Second) }
		_, err = svc.ResolveCurrentUser(ctx, bearerRequest(resp.Token))
		require.NoError(t, err)

		// At and after expiry it does not; validity is strict.
		svc.now = func() time.Time { return issued.Add(auth.TokenTTL + time.Second) }
		_, err = svc.ResolveCurrentUser(ctx, bearerRequest(resp.Token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown token is unauthenticated", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.ResolveCurrentUser(ctx, bearerRequest("no-such-token"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing token is reported as such", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.ResolveCurrentUser(ctx, bearerRequest(""))
		assert.ErrorIs(t, err, auth.ErrMissingToken)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the session and is idempotent", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Register(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)
		resp, err := svc.Login(ctx, domain.Credentials{Login: "user_1", Password: "Strong1!"})
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, bearerRequest(resp.Token)))

		_, err = svc.ResolveCurrentUser(ctx, bearerRequest(resp.Token))
		assert.ErrorIs(t, err, ErrUnauthenticated)

		// Revoking again is still fine.
		require.NoError(t, svc.Logout(ctx, bearerRequest(resp.Token)))
	})

	t.Run("logout without a token succeeds", func(t *testing.T) {
		svc, _, _ := newTestService()
		assert.NoError(t, svc.Logout(ctx, bearerRequest("")))
	})

	t.Run("malformed header still fails", func(t *testing.T) {
		svc, _, _ := newTestService()

		r := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		r.Header.Set("Authorization", "Basic xyz")
		assert.ErrorIs(t, svc.Logout(ctx, r), auth.ErrMalformedAuthHeader)
	})
}
