package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard remembers refresh tokens that have already been rotated so a
// replayed token is rejected without a database round trip. Keys expire with
// the refresh lifetime: past that point the token cannot validate anyway.
// Only a digest of the token is stored, never the token itself.
type ReplayGuard struct {
	client *redis.Client
}

// NewReplayGuard creates a ReplayGuard wrapping the given Redis client.
func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

// WasRotated reports whether this token has already been exchanged.
func (g *ReplayGuard) WasRotated(ctx context.Context, token string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("replay check: %w", err)
	}
	return n > 0, nil
}

// MarkRotated records that this token has been exchanged.
func (g *ReplayGuard) MarkRotated(ctx context.Context, token string, ttl time.Duration) error {
	return g.client.Set(ctx, g.key(token), "1", ttl).Err()
}

func (g *ReplayGuard) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "rotated:" + hex.EncodeToString(sum[:])
}
