// Package v1 provides the task-list business logic for API version 1:
// registration, login, session resolution, logout and task listing.
//
// Error Handling:
// This package defines sentinel errors that represent terminal
// authentication outcomes. They are wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods, and
// handlers map them with errors.Is. Credential policy violations
// (invalid login shape, weak password, malformed header, missing
// token) propagate from internal/auth unchanged.
//
// Example Usage:
//
//	if row == nil {
//	    return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
//	case errors.Is(err, logicv1.ErrLoginTaken):
//	    c.JSON(http.StatusConflict, gin.H{"error": "Login already exists"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for authentication operations.
var (
	// ErrInvalidCredentials indicates login failure. It deliberately
	// covers both "no such user" and "wrong password" so the response
	// cannot be used to enumerate accounts.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid login or password")

	// ErrLoginTaken indicates the login is already registered.
	// HTTP Status: 409 Conflict
	ErrLoginTaken = errors.New("login already taken")

	// ErrUnauthenticated indicates the request carries no resolvable
	// session: unknown, expired or revoked token. Like
	// ErrInvalidCredentials it carries no distinguishing detail.
	// HTTP Status: 401 Unauthorized
	ErrUnauthenticated = errors.New("invalid or expired token")
)
