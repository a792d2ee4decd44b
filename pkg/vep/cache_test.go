package vep

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	key := CacheKey("annotate", "17-36459258-A-G")

	assert.Equal(t, key, CacheKey("annotate", "17-36459258-A-G"), "key must be deterministic")
	assert.NotEqual(t, key, CacheKey("recode", "17-36459258-A-G"), "request kind must separate keys")
	assert.NotEqual(t, key, CacheKey("annotate", "17-36459258-A-T"), "notation must separate keys")
	assert.Contains(t, key, "vep:annotate:")
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache, err := NewMemoryCache(10)
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte(`{"most_severe_consequence":"missense_variant"}`)

	_, found := cache.GetJSON(ctx, "k1")
	assert.False(t, found)

	cache.SetJSON(ctx, "k1", payload, time.Minute)
	got, found := cache.GetJSON(ctx, "k1")
	require.True(t, found)
	assert.Equal(t, payload, got)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	cache, err := NewMemoryCache(10)
	require.NoError(t, err)

	ctx := context.Background()
	cache.SetJSON(ctx, "k1", []byte(`{}`), 30*time.Millisecond)

	_, found := cache.GetJSON(ctx, "k1")
	require.True(t, found)

	time.Sleep(60 * time.Millisecond)
	_, found = cache.GetJSON(ctx, "k1")
	assert.False(t, found, "expired entries must never be served")
}

func TestMemoryCacheEviction(t *testing.T) {
	cache, err := NewMemoryCache(2)
	require.NoError(t, err)

	ctx := context.Background()
	cache.SetJSON(ctx, "a", []byte(`1`), time.Minute)
	cache.SetJSON(ctx, "b", []byte(`2`), time.Minute)
	cache.SetJSON(ctx, "c", []byte(`3`), time.Minute)

	_, foundA := cache.GetJSON(ctx, "a")
	_, foundC := cache.GetJSON(ctx, "c")
	assert.False(t, foundA, "oldest entry should be evicted")
	assert.True(t, foundC)
}

// unreachableRedisCache builds a RedisCache pointed at a closed port so the
// tiered fallback branch can be exercised without a Redis instance.
func unreachableRedisCache() *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return &RedisCache{redis: client}
}

func TestTieredCacheFallsBackWhenPrimaryUnreachable(t *testing.T) {
	fallback, err := NewMemoryCache(10)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cache := NewTieredCache(unreachableRedisCache(), fallback, logger)

	ctx := context.Background()
	payload := []byte(`{"assembly_name":"GRCh38"}`)

	// Write lands in the fallback despite the primary being down.
	cache.SetJSON(ctx, "k1", payload, time.Minute)

	got, found := cache.GetJSON(ctx, "k1")
	require.True(t, found, "fallback tier must serve the entry transparently")
	assert.Equal(t, payload, got)
}

func TestTieredCacheWithoutPrimary(t *testing.T) {
	fallback, err := NewMemoryCache(10)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cache := NewTieredCache(nil, fallback, logger)

	ctx := context.Background()
	cache.SetJSON(ctx, "k1", []byte(`{}`), time.Minute)

	_, found := cache.GetJSON(ctx, "k1")
	assert.True(t, found)
}
