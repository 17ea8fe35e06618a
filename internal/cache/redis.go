// Package cache provides the Redis-backed implementations: the durable
// location-history store and the valid-location cache.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a shared client for the cache implementations.
type Redis struct {
	Client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

// Close closes the connection.
func (r *Redis) Close() error {
	return r.Client.Close()
}

// Ping checks Redis availability.
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
