// Package cache provides a Redis read-through cache for evaluation
// outcomes. Evaluate is a pure function of the record and the loaded
// artifacts, so identical records can safely share a cached outcome until
// the artifacts or policy change.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"churn-retention-engine/internal/models"
)

const keyPrefix = "churn:eval:"

// Cache wraps a Redis client with outcome serialization.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a cache against a Redis address. TTL bounds how long an
// outcome may outlive the artifacts it was computed with.
func New(addr, password string, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// NewFromClient wraps an existing client; used by tests with miniredis.
func NewFromClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, logger: zap.NewNop()}
}

// Key derives the cache key for a record: a SHA-256 digest of the
// normalized record's canonical JSON, so equivalent submissions (casing,
// padding) share an entry.
func Key(rec *models.CustomerRecord) (string, error) {
	normalized := rec.Normalize()
	data, err := json.Marshal(&normalized)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record for cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached outcome for a record, or nil on a miss. Cache
// failures are logged and treated as misses; the caller recomputes.
func (c *Cache) Get(ctx context.Context, rec *models.CustomerRecord) *models.Outcome {
	key, err := Key(rec)
	if err != nil {
		return nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.Error(err))
		}
		return nil
	}

	var outcome models.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", zap.Error(err))
		return nil
	}
	return &outcome
}

// Put stores an outcome for a record. Failures are logged and swallowed;
// caching is best effort.
func (c *Cache) Put(ctx context.Context, rec *models.CustomerRecord, outcome *models.Outcome) {
	key, err := Key(rec)
	if err != nil {
		return
	}

	data, err := json.Marshal(outcome)
	if err != nil {
		c.logger.Warn("failed to marshal outcome for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache put failed", zap.Error(err))
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
