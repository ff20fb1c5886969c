package domain

import (
	"errors"
	"time"
)

const (
	// RoleUser is the default authority granted at registration. It must be
	// present in the roles table before the service starts.
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
)

// Role is static reference data; looked up, never created by the auth flow.
type Role struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// User models a registered account. The username is immutable after
// registration and the password is only ever stored as a bcrypt hash.
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Authorities returns the user's role names in their persisted order.
func (u *User) Authorities() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PublicUser is the projection returned by registration and listing
// endpoints; it never carries the password hash.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Public returns the public-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
