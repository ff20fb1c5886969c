package ports

import (
	"context"

	"github.com/platformteam/auth-service/internal/core/domain"
)

// RegisterInput carries the registration form. ConfirmPassword is compared
// before any storage access.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService orchestrates login, refresh rotation and registration.
type AuthService interface {
	// Login verifies the credentials and returns a fresh token pair,
	// persisting the refresh token for later rotation.
	Login(ctx context.Context, username, password string) (*domain.TokenPair, error)
	// Refresh consumes the given refresh token and, when it was still live,
	// returns a new pair. Every successful call invalidates the old token.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Register creates a new account with the default role and returns its
	// public projection.
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error)
	// CurrentUser resolves the authenticated principal to its stored account.
	CurrentUser(ctx context.Context, principal domain.Principal) (*domain.PublicUser, error)
}
