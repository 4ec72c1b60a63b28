// Package cache is the Redis-backed cache. Every call is a no-op (miss) when
// Redis was never connected or the ping failed, so callers fall through to
// the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/metrics"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies the connection with a ping.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Available reports whether Redis is connected.
func Available() bool { return RDB != nil }

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

func prefix(key string) string {
	p, _, _ := strings.Cut(key, ":")
	return p
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Bytes()
	if err != nil || json.Unmarshal(val, dest) != nil {
		metrics.CacheMisses.WithLabelValues(prefix(key)).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(prefix(key)).Inc()
	return true
}

// Set stores value in Redis under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// SetNX stores value only if key is absent. Without Redis it reports
// true (nothing to dedupe against).
func SetNX(key string, value interface{}, ttl time.Duration) (bool, error) {
	if RDB == nil {
		return true, nil
	}
	return RDB.SetNX(Ctx, key, value, ttl).Result()
}

// Del removes one or more keys from Redis.
func Del(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget removes every key starting with keyPrefix.
func Forget(keyPrefix string) error {
	if RDB == nil {
		return nil
	}

	iter := RDB.Scan(Ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(Ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return Del(keys...)
}
