package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// MarkOnce records a webhook event id and reports whether this call was the
// first to see it. SetNX keeps the check-and-set atomic across instances.
func (c *RedisCache) MarkOnce(ctx context.Context, eventID string) (bool, error) {
	return c.Client.SetNX(ctx, "webhook:event:"+eventID, "1", c.TTL).Result()
}

// Unmark drops a marker so the gateway's retry of a failed application is
// processed instead of suppressed.
func (c *RedisCache) Unmark(ctx context.Context, eventID string) error {
	return c.Client.Del(ctx, "webhook:event:"+eventID).Err()
}
