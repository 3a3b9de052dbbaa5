package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client for the room-availability read cache.
// Returns nil when addr is empty or the initial ping fails; callers must
// treat a nil client as "cache disabled" and read straight from the store.
func NewRedisClient(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unreachable at %s, availability cache disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}

	return client
}
