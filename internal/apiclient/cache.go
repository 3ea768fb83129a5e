package apiclient

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheDuration = 5 * time.Minute
	defaultFetchTimeout  = 30 * time.Second
)

// Cache is a short-TTL response cache. Concurrent misses for the same key
// share one fetch.
type Cache struct {
	store   Store
	now     func() time.Time
	log     *zap.Logger
	metrics *CacheMetrics
	group   singleflight.Group

	fetchTimeout time.Duration
}

type CacheOption func(*Cache)

func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func WithCacheLogger(log *zap.Logger) CacheOption {
	return func(c *Cache) { c.log = log }
}

func WithCacheMetrics(m *CacheMetrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// WithFetchTimeout bounds a shared fetch, which no longer stops when the
// caller that started it goes away.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *Cache) { c.fetchTimeout = d }
}

func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store: store,
		now:   time.Now,
		log:   zap.NewNop(),

		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type FetchFunc func(ctx context.Context) ([]byte, error)

// Get returns the entry for key when it is younger than d, otherwise calls
// fetch and stores its result. A failed fetch stores nothing.
func (c *Cache) Get(ctx context.Context, key string, d time.Duration, fetch FetchFunc) ([]byte, error) {
	if d <= 0 {
		d = DefaultCacheDuration
	}

	e, err := c.store.Get(ctx, key)
	switch {
	case err == nil && e.Fresh(c.now(), d):
		c.metrics.hit()
		return e.Data, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.miss()

	// The shared fetch outlives any single caller; each caller still gives
	// up on its own context.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		data, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(fctx, key, Entry{Data: data, StoredAt: c.now()}, d); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		} else {
			c.metrics.fill()
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.metrics.share()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Clear drops every entry when substr is empty, otherwise every entry whose
// key contains substr.
func (c *Cache) Clear(ctx context.Context, substr string) (int, error) {
	if substr == "" {
		return 0, c.store.Clear(ctx)
	}
	return c.store.DeleteMatching(ctx, substr)
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
