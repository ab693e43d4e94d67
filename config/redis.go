package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis opens the shared redis client and pings it once.
func ConnectRedis(ctx context.Context) error {
	addr := envOrDefault("REDIS_ADDR", "127.0.0.1:6379")
	password := envOrDefault("REDIS_PASSWORD", "")
	db, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	Redis = client
	return nil
}
