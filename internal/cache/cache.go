package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/asemenkov/ecomm-backend/internal/observability"
	"github.com/asemenkov/ecomm-backend/internal/pkg/breaker"
)

// Backend is the raw key-value store. The redis implementation lives in
// redis.go; tests substitute an in-memory one.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Reset(ctx context.Context) error
}

// Cache wraps a Backend so that no backend failure ever escapes to a caller:
// errors are logged, counted and degraded to a miss or a no-op. The cache is
// a performance layer, never a correctness boundary.
type Cache struct {
	backend Backend
	brk     *breaker.Breaker
	ttl     time.Duration
	logger  *zap.Logger
	metrics observability.Metrics
}

const DefaultTTL = 3600 * time.Second

func New(backend Backend, brk *breaker.Breaker, ttl time.Duration, logger *zap.Logger, metrics observability.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		backend: backend,
		brk:     brk,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Cache) allow() bool {
	if c.brk == nil {
		return true
	}
	return c.brk.Allow() == nil
}

func (c *Cache) observe(op string, err error) {
	if c.brk != nil {
		if err != nil {
			c.brk.Failure()
		} else {
			c.brk.Success()
		}
	}
	if err != nil {
		c.metrics.IncCacheError()
		c.logger.Warn("cache backend error",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// Get returns the cached value, or ok=false on a miss, a backend failure or
// an open breaker.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.allow() {
		c.metrics.IncCacheMiss()
		return "", false
	}

	v, ok, err := c.backend.Get(ctx, key)
	c.observe("get", err)
	if err != nil || !ok {
		c.metrics.IncCacheMiss()
		return "", false
	}
	c.metrics.IncCacheHit()
	return v, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key, value string) {
	c.SetTTL(ctx, key, value, c.ttl)
}

// SetTTL stores value under key. A zero or negative ttl disables caching for
// this write entirely.
func (c *Cache) SetTTL(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if !c.allow() {
		return
	}
	err := c.backend.Set(ctx, key, value, ttl)
	c.observe("set", err)
}

// Del removes the given keys. Concurrent deletes of the same key are
// idempotent; last delete wins.
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 || !c.allow() {
		return
	}
	err := c.backend.Del(ctx, keys...)
	c.observe("del", err)
}

// Reset drops everything.
func (c *Cache) Reset(ctx context.Context) {
	if !c.allow() {
		return
	}
	err := c.backend.Reset(ctx)
	c.observe("reset", err)
}
