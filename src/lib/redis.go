package lib

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// ClaimOnce marks a key as seen and reports whether this caller claimed it
// first. Used to drop redelivered webhook events. A redis outage fails
// open so a lost dedupe record never drops a real event.
func ClaimOnce(ctx context.Context, key string, ttl time.Duration) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return true
	}
	ok, err := rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		log.Printf("[redis] Failed to claim key %s: %s\n", key, err.Error())
		return true
	}
	return ok
}

// ReleaseClaim gives a claimed key back so a redelivery of the same event
// is processed instead of dropped.
func ReleaseClaim(ctx context.Context, key string) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("[redis] Failed to release key %s: %s\n", key, err.Error())
	}
}
