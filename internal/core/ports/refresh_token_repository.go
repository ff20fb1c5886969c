package ports

import (
	"context"

	"github.com/platformteam/auth-service/internal/core/domain"
)

// RefreshTokenRepository persists refresh-token records for rotation and
// revocation.
type RefreshTokenRepository interface {
	// Save inserts a new record. Concurrent sessions for the same user are
	// allowed; no uniqueness is enforced across them.
	Save(ctx context.Context, record *domain.RefreshToken) error
	// Consume deletes the record matching the token string in a single
	// statement and reports whether a row was actually removed. Two
	// concurrent calls with the same token can therefore never both succeed.
	Consume(ctx context.Context, token string) (bool, error)
	// DeleteByToken removes the record regardless of whether it exists.
	DeleteByToken(ctx context.Context, token string) error
}
