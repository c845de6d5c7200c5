package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"almanah/internal/ratelimit/models"
)

// allowScript trims, counts and conditionally records in one round trip.
// Returns {allowed, count, oldest_ms}.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  count = count + 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local allowed = 0
if redis.call('ZSCORE', key, ARGV[4]) then allowed = 1 end
return {allowed, count, tonumber(oldest[2])}
`)

// RedisBucketStore keeps sliding windows in sorted sets so every replica
// shares one budget per key.
type RedisBucketStore struct {
	client redis.Scripter
	now    func() time.Time
}

func NewRedisBucketStore(client redis.Scripter) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	raw, err := allowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", key, raw)
	}

	resetAt := time.UnixMilli(raw[2]).Add(window)
	if resetAt.Before(now) {
		resetAt = now.Add(window)
	}
	result := &models.RateLimitResult{
		Allowed:   raw[0] == 1,
		Limit:     limit,
		Remaining: max(limit-int(raw[1]), 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = retryAfter(now, resetAt)
	}
	return result, nil
}
