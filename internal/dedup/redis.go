package dedup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenTTL = 30 * 24 * time.Hour

// RedisCache is the seen-cache backend for setups that run from more than
// one machine; same 30-day window as the file cache, via key TTLs.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache parses redisURL and verifies connectivity. The context only
// scopes the connectivity check; later calls bring their own.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{rdb: client}, nil
}

func (rc *RedisCache) IsSeen(ctx context.Context, url string) bool {
	n, err := rc.rdb.Exists(ctx, seenKey(url)).Result()
	if err != nil {
		log.Printf("⚠️ Redis seen-check failed: %v", err)
		return false
	}
	return n > 0
}

func (rc *RedisCache) Add(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := rc.rdb.Set(ctx, seenKey(url), 1, seenTTL).Err(); err != nil {
			log.Printf("⚠️ Redis seen-mark failed: %v", err)
			return
		}
	}
}

func (rc *RedisCache) Close() error {
	return rc.rdb.Close()
}

func seenKey(url string) string {
	return "copilot:seen:" + url
}
