package config

// Redis backs the response cache and the distributed rate limiter.  Both
// are optional: when no server can be reached at startup the constructor
// returns nil and the middleware degrade to pass-throughs, so a missing
// Redis never prevents the booking API from serving.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from the environment.  REDIS_URL
// takes precedence when set (redis://... form); otherwise REDIS_HOST,
// REDIS_PORT, REDIS_PASSWORD and REDIS_DB are consulted with localhost
// defaults.  Returns nil when the server does not answer a ping.
func NewRedisClient() *redis.Client {
	var opts *redis.Options
	if url := os.Getenv("REDIS_URL"); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil
		}
		opts = parsed
	} else {
		host := os.Getenv("REDIS_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		db := 0
		if s := os.Getenv("REDIS_DB"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				db = n
			}
		}
		opts = &redis.Options{
			Addr:     host + ":" + port,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
