package vep

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vep-annotation-client/internal/domain"
)

// Cache is the key/JSON store consulted before and populated after upstream
// calls. Implementations must treat entries past their TTL as absent and
// must be safe for concurrent use.
type Cache interface {
	GetJSON(ctx context.Context, key string) ([]byte, bool)
	SetJSON(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// CacheKey derives the deterministic cache key for a request kind
// ("annotate" or "recode") and a canonical raw notation string.
func CacheKey(kind, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("vep:%s:%x", kind, hash[:8])
}

// cacheEnvelope wraps a cached payload with its expiry metadata so entries
// survive backends without native per-key TTL semantics.
type cacheEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// RedisCache is the primary cache tier backed by a remote Redis store.
type RedisCache struct {
	redis *redis.Client
}

// NewRedisCache creates the primary cache tier and verifies connectivity.
func NewRedisCache(config domain.CacheConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{redis: client}, nil
}

// GetJSON retrieves a cached payload. Expired and corrupted entries are
// deleted and reported as misses; backend errors are also misses.
func (c *RedisCache) GetJSON(ctx context.Context, key string) ([]byte, bool) {
	payload, found, _ := c.getJSON(ctx, key)
	return payload, found
}

// SetJSON stores a payload with the given TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = c.setJSON(ctx, key, value, ttl)
}

// getJSON is the error-aware read used by TieredCache to tell a genuine
// miss apart from an unreachable backend.
func (c *RedisCache) getJSON(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal([]byte(val), &envelope); err != nil {
		// Corrupted entry, drop it.
		c.redis.Del(ctx, key)
		return nil, false, nil
	}
	if time.Now().After(envelope.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	return envelope.Payload, true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	envelope := cacheEnvelope{
		Payload:   value,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal cache envelope: %w", err)
	}
	return c.redis.Set(ctx, key, data, ttl).Err()
}

// Ping checks whether the Redis connection is alive.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.redis.Close()
}

// memoryEntry is a payload with its expiry, stored in the LRU tier.
type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is the in-process fallback tier: an LRU of TTL-stamped
// entries with lazy expiry on read. The LRU guards its own state, so the
// cache is safe for concurrent use.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
}

// DefaultMemoryCacheSize bounds the fallback tier when no size is configured.
const DefaultMemoryCacheSize = 1000

// NewMemoryCache creates an in-process cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryCache{entries: entries}, nil
}

// GetJSON retrieves a cached payload; expired entries are removed and
// reported as misses.
func (c *MemoryCache) GetJSON(_ context.Context, key string) ([]byte, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.payload, true
}

// SetJSON stores a payload with the given TTL.
func (c *MemoryCache) SetJSON(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.entries.Add(key, memoryEntry{
		payload:   value,
		expiresAt: time.Now().Add(ttl),
	})
}

// TieredCache tries a primary remote tier and degrades transparently to an
// in-process fallback when the primary is unreachable. Callers never learn
// which tier served the request, and backend errors are never surfaced.
type TieredCache struct {
	primary  *RedisCache
	fallback *MemoryCache
	logger   *logrus.Logger
}

// NewTieredCache composes the two tiers. primary may be nil, in which case
// every request is served by the fallback.
func NewTieredCache(primary *RedisCache, fallback *MemoryCache, logger *logrus.Logger) *TieredCache {
	return &TieredCache{primary: primary, fallback: fallback, logger: logger}
}

// GetJSON reads from the primary tier, falling back to the in-process tier
// only when the primary reports a backend error rather than a miss.
func (c *TieredCache) GetJSON(ctx context.Context, key string) ([]byte, bool) {
	if c.primary != nil {
		payload, found, err := c.primary.getJSON(ctx, key)
		if err == nil {
			return payload, found
		}
		c.logger.WithError(err).WithField("key", key).
			Debug("Primary cache unreachable, reading from in-process fallback")
	}
	return c.fallback.GetJSON(ctx, key)
}

// SetJSON writes to both tiers; a primary outage leaves the fallback warm
// and is logged, never surfaced.
func (c *TieredCache) SetJSON(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.fallback.SetJSON(ctx, key, value, ttl)
	if c.primary != nil {
		if err := c.primary.setJSON(ctx, key, value, ttl); err != nil {
			c.logger.WithError(err).WithField("key", key).
				Debug("Primary cache unreachable, entry kept in in-process fallback")
		}
	}
}
