package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"vidyutmitra/internal/observability/metrics"
	tariff "vidyutmitra/internal/tariff/domain"
)

const (
	latestKey  = "tou:latest"
	defaultTTL = 5 * time.Minute
)

// LatestReader supplies the latest sample on cache miss.
type LatestReader interface {
	Latest(ctx context.Context) (tariff.Sample, error)
}

// SampleCache caches the hot latest-tariff read in Redis in front of
// the Postgres store. The cache is best effort: any Redis failure
// falls through to the underlying reader.
type SampleCache struct {
	client *redis.Client
	source LatestReader
	ttl    time.Duration
}

// CacheOption configures the cache.
type CacheOption func(*SampleCache)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *SampleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewSampleCache constructs a cache.
func NewSampleCache(client *redis.Client, source LatestReader, opts ...CacheOption) (*SampleCache, error) {
	if client == nil {
		return nil, errors.New("sample cache: nil client")
	}
	if source == nil {
		return nil, errors.New("sample cache: nil source")
	}
	cache := &SampleCache{client: client, source: source, ttl: defaultTTL}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// Latest returns the cached latest sample, reading through on miss.
func (c *SampleCache) Latest(ctx context.Context) (tariff.Sample, error) {
	if raw, err := c.client.Get(ctx, latestKey).Bytes(); err == nil {
		var sample tariff.Sample
		if err := json.Unmarshal(raw, &sample); err == nil {
			metrics.IncTariffCache("hit")
			return sample, nil
		}
	}
	metrics.IncTariffCache("miss")

	sample, err := c.source.Latest(ctx)
	if err != nil {
		return tariff.Sample{}, err
	}
	if raw, err := json.Marshal(sample); err == nil {
		c.client.Set(ctx, latestKey, raw, c.ttl)
	}
	return sample, nil
}

// Invalidate drops the cached entry. Called after each synthesizer
// append so the dashboard sees the fresh rate.
func (c *SampleCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, latestKey)
}
