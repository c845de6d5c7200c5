package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// countKeyPrefix namespaces count keys in a shared Redis.
const countKeyPrefix = "almanah:catalog:count:"

// RedisCounts is a CountCache on Redis strings with expiry.
type RedisCounts struct {
	client redis.Cmdable
}

func NewRedisCounts(client redis.Cmdable) *RedisCounts {
	return &RedisCounts{client: client}
}

func (c *RedisCounts) GetCount(ctx context.Context, key string) (int, bool, error) {
	raw, err := c.client.Get(ctx, countKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *RedisCounts) SetCount(ctx context.Context, key string, n int, ttl time.Duration) error {
	return c.client.Set(ctx, countKeyPrefix+key, strconv.Itoa(n), ttl).Err()
}
