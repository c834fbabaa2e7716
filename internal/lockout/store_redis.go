package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lockout:login:"

// RedisStore shares lockout counters across gateway replicas. The counter key
// carries the window TTL, so expiry needs no cleanup pass.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed lockout store. The client lifecycle is
// managed by the caller.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	full := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	pipe.ExpireNX(ctx, full, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Failures(ctx context.Context, key string) (int, time.Duration, error) {
	full := redisKeyPrefix + key

	count, err := s.client.Get(ctx, full).Int()
	if err == redis.Nil {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	ttl, err := s.client.PTTL(ctx, full).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

func (s *RedisStore) Extend(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, redisKeyPrefix+key, ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
