// Package token implements the signing and verification of access and
// refresh tokens. The codec is stateless and safe for concurrent use; access
// and refresh tokens differ only in the secret and lifetime they are issued
// with, so a compromise of one key never compromises the other class.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/platformteam/auth-service/internal/core/domain"
)

type claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec issues and decodes HS256-signed tokens carrying a subject and an
// ordered roles claim.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a Codec using the wall clock.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecWithClock returns a Codec with an injected clock, for tests.
func NewCodecWithClock(now func() time.Time) *Codec {
	return &Codec{now: now}
}

// Issue builds a signed token embedding subject and roles, issued at the
// current clock time and expiring after lifetime. Each token carries a
// random jti, so two tokens issued within the same second are still
// distinct strings and rotate independently.
func (c *Codec) Issue(subject string, roles []string, secret []byte, lifetime time.Duration) (string, error) {
	issued := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Subject verifies the token against secret and returns its subject claim.
// An expired token yields domain.ErrTokenExpired; any signature or structure
// problem yields domain.ErrTokenInvalid.
func (c *Codec) Subject(tokenString string, secret []byte) (string, error) {
	cl, err := c.parse(tokenString, secret)
	if err != nil {
		return "", err
	}
	return cl.Subject, nil
}

// Roles verifies the token against secret and returns its roles claim in
// issue order.
func (c *Codec) Roles(tokenString string, secret []byte) ([]string, error) {
	cl, err := c.parse(tokenString, secret)
	if err != nil {
		return nil, err
	}
	return cl.Roles, nil
}

func (c *Codec) parse(tokenString string, secret []byte) (*claims, error) {
	cl := &claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, cl, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return cl, nil
}
