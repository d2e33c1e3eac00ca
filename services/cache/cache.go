// Package cache stores JSON snapshots in redis. A nil client turns every call into a miss.
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Get loads key into target. found is false on a miss or when caching is disabled.
func Get(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	cachedData, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(cachedData), target); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key with ttl
func Set(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

// Delete removes keys
func Delete(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching pattern, e.g. "summary:<employer>:*"
func DeletePattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return Delete(ctx, rdb, keys...)
}

// Lock takes a best-effort exclusive lock. It returns false when the key is already held.
// The returned release func is safe to call when the lock was not acquired.
func Lock(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, func(), error) {
	if rdb == nil {
		return true, func() {}, nil
	}
	ok, err := rdb.SetNX(ctx, key, time.Now().UnixNano(), ttl).Result()
	if err != nil {
		return false, func() {}, err
	}
	if !ok {
		return false, func() {}, nil
	}
	return true, func() { _ = rdb.Del(context.Background(), key).Err() }, nil
}
