package predictions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/telemetry/metrics"
)

// CachingProvider decorates a Provider with a redis cache keyed by an
// application fingerprint. Caching is strictly best-effort: any cache
// failure falls through to the inner provider, and writes happen after
// the fetch without blocking the decision path's correctness.
type CachingProvider struct {
	inner   Provider
	client  *redis.Client
	ttl     time.Duration
	prefix  string
	logger  *slog.Logger
	metrics *metrics.ProviderMetrics
}

// NewCachingProvider wraps inner with a redis prediction cache.
// metrics may be nil.
func NewCachingProvider(inner Provider, cfg config.CacheConfig, logger *slog.Logger, pm *metrics.ProviderMetrics) *CachingProvider {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	return &CachingProvider{
		inner:   inner,
		client:  client,
		ttl:     cfg.TTL,
		prefix:  cfg.KeyPrefix,
		logger:  logger.With("component", "predictions.cache"),
		metrics: pm,
	}
}

// FetchPredictions answers from the cache when possible, otherwise
// delegates to the inner provider and stores the result. An empty
// prediction set is never cached; an outage should not be remembered.
func (p *CachingProvider) FetchPredictions(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error) {
	key := p.key(app)

	start := time.Now()
	if raw, err := p.client.Get(ctx, key).Result(); err == nil {
		var cached []decision.ModelPrediction
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			p.metrics.ObserveFetch("cache", metrics.OutcomeCached, time.Since(start))
			return cached, nil
		}
		p.logger.Warn("discarding malformed cache entry", "key", key, "error", err)
	} else if err != redis.Nil {
		p.logger.Warn("prediction cache read failed", "error", err)
	}

	preds, err := p.inner.FetchPredictions(ctx, app)
	if err != nil {
		return preds, err
	}

	if len(preds) > 0 {
		if raw, err := json.Marshal(preds); err == nil {
			if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
				p.logger.Warn("prediction cache write failed", "error", err)
			}
		}
	}

	return preds, nil
}

// Close releases the redis connection.
func (p *CachingProvider) Close() error {
	return p.client.Close()
}

// key fingerprints the application. Two identical applications share a
// cache entry; any field change produces a new key.
func (p *CachingProvider) key(app decision.Application) string {
	raw, _ := json.Marshal(app)
	sum := sha256.Sum256(raw)
	return p.prefix + hex.EncodeToString(sum[:])
}
