// Package cache keeps hot tournament reads (live snapshots, standings)
// in Redis with a short TTL. Every write path invalidates; a miss just
// falls through to Postgres, so Redis being down degrades, not breaks.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 15 * time.Second

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New строит кэш поверх клиента Redis. client == nil допустим: кэш
// превращается в no-op, сервис работает напрямую с БД.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func LiveKey(tournamentID int) string {
	return fmt.Sprintf("tournament:%d:live", tournamentID)
}

func StandingsKey(tournamentID int) string {
	return fmt.Sprintf("tournament:%d:standings", tournamentID)
}

// Get unmarshals the cached value into dest. Returns false on miss,
// on broken payloads and on transport errors alike.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.WarnContext(ctx, "cache payload corrupt, dropping", slog.String("key", key), slog.Any("error", err))
		c.Invalidate(ctx, key)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidate failed", slog.Any("error", err))
	}
}
