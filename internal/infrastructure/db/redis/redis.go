// Package redis backs the refresh-token replay guard. Losing it never
// breaks rotation (the relational consume stays authoritative), so the
// only hard requirement is catching a misconfigured address at startup
// instead of degrading silently on the first rotation.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config holds the connection settings for the replay-guard store.
type Config struct {
	Addr string
	DB   int
}

// Connect opens a client for the replay-guard store and pings it before
// the service starts taking traffic.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("replay store ping: %w", err)
	}

	return client, nil
}
