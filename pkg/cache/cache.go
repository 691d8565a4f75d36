// Package cache wraps the shared Redis client. All helpers no-op safely when
// Redis is unavailable so the app can run degraded (no sessions cached, no
// presence heartbeats) rather than crash.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventnest/eventnest/config"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // mark unavailable so helpers no-op
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
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

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Heartbeat refreshes a raw string key with a TTL. Used by the chat presence
// registry so liveness expires on its own when a process dies.
func Heartbeat(key string, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	return RDB.Set(Ctx, key, "1", ttl).Err()
}

// Alive reports whether a heartbeat key still exists.
func Alive(key string) bool {
	if RDB == nil {
		return false
	}
	n, err := RDB.Exists(Ctx, key).Result()
	return err == nil && n > 0
}
