package domain

import (
	"errors"
	"time"
)

var (
	// ErrTokenExpired is returned when a token's signature verifies but its
	// expiry has passed. Kept distinct from ErrTokenInvalid so callers can
	// log the two cases differently; both mean "unauthenticated".
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, wrong signing methods and
	// structurally malformed tokens.
	ErrTokenInvalid = errors.New("token invalid")

	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
)

// RefreshToken is the persisted record backing refresh rotation: one row per
// active session, deleted when rotated or revoked.
type RefreshToken struct {
	ID     uint   `json:"id"`
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Principal is the authenticated identity attached to a request after the
// bearer token has been verified. It is built fresh per request and never
// persisted.
type Principal struct {
	Username    string
	Authorities []string
}

// HasAuthority reports whether the principal holds the given authority.
func (p Principal) HasAuthority(name string) bool {
	for _, a := range p.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

// AuditEvent records the outcome of an authentication operation. Events are
// written asynchronously; losing one must never fail the request that
// produced it.
type AuditEvent struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Audit actions.
const (
	AuditActionLogin    = "login"
	AuditActionRefresh  = "refresh"
	AuditActionRegister = "register"
)
