package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"conesa_estates_backend/internal/config"
)

// Client wraps go-redis for JSON response caching.
// Optional: when REDIS_ADDR is empty NewClient returns (nil, nil) and
// callers skip the cache.
type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient connects to Redis when configured.
func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Redis is not configured. Catalog caching is disabled.")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// A dead cache should not prevent startup; reads fall through to
		// Elasticsearch or the database.
		logger.Warn("Redis ping failed, continuing without cache", zap.Error(err))
		return nil, nil
	}

	logger.Info("Redis cache connected", zap.String("addr", cfg.RedisAddr))
	return &Client{rdb: rdb, logger: logger.Named("cache")}, nil
}

// GetCached loads a cached JSON value into dest. Returns false on a miss.
func (c *Client) GetCached(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

// SetCached stores a value as JSON with a TTL.
func (c *Client) SetCached(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// InvalidatePrefix removes every key under the given prefix.
func (c *Client) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// GenerateQueryCacheKey builds a stable cache key from query parameters.
func GenerateQueryCacheKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
