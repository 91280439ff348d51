// Package domain defines the data-access contracts and the DTOs
// exchanged between the web and logic layers.
package domain

import "errors"

// ErrDuplicateLogin is returned by UserRepository.Create when the
// login unique constraint is violated. The constraint is the sole
// arbiter for concurrent registration; there is no pre-check.
var ErrDuplicateLogin = errors.New("login already exists")

// Credentials is the JSON body of register and login requests.
type Credentials struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserOut is the public view of a user.
type UserOut struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	User UserOut `json:"user"`
}

// AuthResponse is returned on successful login. Token carries the
// raw session token for bearer clients; cookie clients receive the
// same token via Set-Cookie.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserOut `json:"user"`
}

// TaskOut is the public view of a task.
type TaskOut struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}
