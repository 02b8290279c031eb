// Package redis dials the optional Redis used for checkout session storage.
package redis

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectFromEnv dials Redis using REDIS_ADDR and returns the client plus a
// cleanup function. When REDIS_ADDR is missing or the ping fails, it logs and
// returns nil with a no-op cleanup so callers can fall back.
func ConnectFromEnv(ctx context.Context, logger *slog.Logger) (*redis.Client, func()) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back", slog.String("error", err.Error()))
		}
		_ = client.Close()
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", addr))
	}
	return client, func() { _ = client.Close() }
}
