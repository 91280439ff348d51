package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)

// Sentinel errors for credential policy violations. Handlers map
// these with errors.Is; the logic layer wraps them with context.
var (
	// ErrInvalidLogin indicates the login fails the shape rules.
	ErrInvalidLogin = errors.New("login must be 3-32 chars: latin letters, digits, or ._-")

	// ErrMalformedAuthHeader indicates an Authorization header that is
	// present but not a well-formed bearer credential.
	ErrMalformedAuthHeader = errors.New("invalid authorization header")

	// ErrMissingToken indicates no credential was supplied where one
	// is required.
	ErrMissingToken = errors.New("missing authentication token")
)

// WeakPasswordError lists every unmet password requirement, not just
// the first, so clients can render the full checklist.
type WeakPasswordError struct {
	Missing []string
}

func (e *WeakPasswordError) Error() string {
	return "password must include at least " + strings.Join(e.Missing, ", ")
}

// NormalizeLogin trims surrounding whitespace. Logins are
// case-sensitive; no folding happens here.
func NormalizeLogin(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidateLogin normalizes the login and checks it against the shape
// rules, returning the normalized value.
func ValidateLogin(raw string) (string, error) {
	login := NormalizeLogin(raw)
	if !loginPattern.MatchString(login) {
		return "", ErrInvalidLogin
	}
	return login, nil
}

// ValidatePasswordStrength checks length and character-class
// requirements. All checks run; the returned WeakPasswordError
// enumerates everything missing.
func ValidatePasswordStrength(password string) error {
	var missing []string

	// Bounds count characters, not bytes; multibyte runes count once.
	if n := utf8.RuneCountInString(password); n < 8 || n > 128 {
		missing = append(missing, "8-128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one digit")
	}
	if !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return &WeakPasswordError{Missing: missing}
	}
	return nil
}

// TokenFromRequest extracts the session token from the request.
// An Authorization header, when present, takes precedence over the
// cookie and must be a valid bearer credential: a non-bearer scheme
// or an empty token fails with ErrMalformedAuthHeader even when
// required is false and even when a valid cookie is also present.
// With no header, the named cookie is consulted. Absence of both is
// ErrMissingToken when required, otherwise an empty token and no
// error.
func TokenFromRequest(r *http.Request, cookieName string, required bool) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "bearer") || token == "" {
			return "", ErrMalformedAuthHeader
		}
		return token, nil
	}

	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if required {
		return "", ErrMissingToken
	}
	return "", nil
}
