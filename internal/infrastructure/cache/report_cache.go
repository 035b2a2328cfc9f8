// Package cache provides the Redis-backed report cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no cached value exists for a key
var ErrMiss = errors.New("report cache miss")

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ReportCache stores serialized report payloads with a short TTL.
// Reports are always recomputable from source rows; the cache only
// absorbs dashboard refresh bursts, so staleness up to the TTL is
// acceptable.
type ReportCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewReportCache creates a report cache with its own Redis client
func NewReportCache(cfg RedisConfig, ttl time.Duration) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewReportCacheWithClient(client, ttl), nil
}

// NewReportCacheWithClient creates a report cache over an existing
// client. Useful for testing or when sharing a client across components.
func NewReportCacheWithClient(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client:    client,
		keyPrefix: "report:",
		ttl:       ttl,
	}
}

// Key builds a cache key from the store ID and report discriminators
func (c *ReportCache) Key(storeID uint64, parts ...string) string {
	key := fmt.Sprintf("%sstore_%d", c.keyPrefix, storeID)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Get unmarshals the cached payload into dest; ErrMiss when absent
func (c *ReportCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores the payload under the key with the configured TTL
func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// InvalidateStore drops every cached report of one store
func (c *ReportCache) InvalidateStore(ctx context.Context, storeID uint64) error {
	pattern := fmt.Sprintf("%sstore_%d:*", c.keyPrefix, storeID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the Redis client
func (c *ReportCache) Close() error {
	return c.client.Close()
}
