package ports

import (
	"context"

	"github.com/platformteam/auth-service/internal/core/domain"
)

// UserRepository defines the interface for user and role persistence.
// Every call round-trips to durable storage; there is no caching layer.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists a new user, assigning its id. A username collision
	// yields domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindRoleByName returns domain.ErrRoleNotFound when the role is absent.
	// The default role missing from seed data is an operational failure, not
	// something callers recover from.
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	// List returns all users ordered by id.
	List(ctx context.Context) ([]domain.User, error)
}
