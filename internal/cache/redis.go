package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitmatch/engine/internal/config"
)

// admirerCountTTL bounds staleness of the cached "who liked me" counts.
const admirerCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForAdmirerCount generates the Redis key for a user's incoming-like count.
func (c *RedisCache) KeyForAdmirerCount(userID uint64) string {
	return fmt.Sprintf("admirers:count:%d", userID)
}

// GetAdmirerCount reads the cached count. found is false on cache miss.
func (c *RedisCache) GetAdmirerCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForAdmirerCount(userID)
	val, err := c.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat unparsable value as a miss
	}

	// refresh TTL on access, this user is active
	_ = c.Client.Expire(ctx, key, admirerCountTTL).Err()
	return n, true, nil
}

// SetAdmirerCount writes the count with a fresh TTL.
func (c *RedisCache) SetAdmirerCount(ctx context.Context, userID uint64, count int64) error {
	return c.Set(ctx, c.KeyForAdmirerCount(userID), count, admirerCountTTL)
}

// IncrAdmirerCount bumps the cached count after a new incoming like.
// No-op on a cold key would seed a wrong value, so only existing keys are
// incremented.
func (c *RedisCache) IncrAdmirerCount(ctx context.Context, userID uint64) error {
	key := c.KeyForAdmirerCount(userID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, admirerCountTTL).Err()
}

// InvalidateAdmirerCount drops the cached count; the next read repopulates
// it from the store.
func (c *RedisCache) InvalidateAdmirerCount(ctx context.Context, userIDs ...uint64) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForAdmirerCount(id))
	}
	return c.Del(ctx, keys...)
}
