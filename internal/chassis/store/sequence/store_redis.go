package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	dErrors "chassisd/pkg/domain-errors"
	"chassisd/pkg/platform/sentinel"
)

const redisKeyPrefix = "chassis:seq:"

// RedisStore keeps counters in Redis. INCRBY is atomic server-side, so
// concurrent allocators on the same key receive disjoint ranges without
// client-side locking. Durability is whatever the Redis deployment
// provides (AOF recommended).
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis constructs a Redis-backed sequence store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allocate(ctx context.Context, key string, count int) (int64, error) {
	if count < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidParameter, "allocation count must be positive")
	}
	last, err := s.client.IncrBy(ctx, redisKeyPrefix+key, int64(count)).Result()
	if err != nil {
		return 0, dErrors.Wrap(fmt.Errorf("incrby: %w", err), dErrors.CodeStorageFailure, "persist sequence counter")
	}
	return last - int64(count) + 1, nil
}

func (s *RedisStore) Peek(ctx context.Context, key string) (int64, error) {
	last, err := s.client.Get(ctx, redisKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get sequence counter: %w", err)
	}
	return last, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return dErrors.Wrap(fmt.Errorf("del: %w", err), dErrors.CodeStorageFailure, "persist sequence counter")
	}
	return nil
}
