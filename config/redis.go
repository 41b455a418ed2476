package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from REDIS_* environment variables and
// verifies the connection with a short ping. It returns nil when Redis is
// unreachable so callers can fall back to in-process alternatives.
func NewRedisClient() *redis.Client {
	addr := envOrDefault("REDIS_ADDR", "127.0.0.1:6379")
	password := os.Getenv("REDIS_PASSWORD")

	dbIndex := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			dbIndex = parsed
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s: %v", addr, err)
		_ = client.Close()
		return nil
	}

	log.Printf("redis connected at %s", addr)
	return client
}
