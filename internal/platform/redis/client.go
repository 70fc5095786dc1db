// Package redis owns the Redis connection used by the sequence store
// backend.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chassisd/internal/platform/config"
)

// Connect dials Redis from configuration and verifies the connection with
// a ping before handing it out. An empty URL reports the backend as not
// configured rather than failing, so callers can decide whether Redis is
// mandatory for them.
func Connect(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
