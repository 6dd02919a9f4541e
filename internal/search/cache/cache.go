package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache stores search responses for a fixed TTL and collapses concurrent
// fetches of the same key into one.
//
// Store failures never fail a request: a broken read is a miss and a broken
// write is only logged.
type Cache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// New creates a Cache on top of store.
func New(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Key joins parts into a cache key. Times are rendered as RFC3339, nil
// pointers as an empty segment.
func Key(namespace string, parts ...any) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		switch v := p.(type) {
		case nil:
		case time.Time:
			b.WriteString(v.UTC().Format(time.RFC3339))
		case *time.Time:
			if v != nil {
				b.WriteString(v.UTC().Format(time.RFC3339))
			}
		case string:
			b.WriteString(strings.ToLower(strings.TrimSpace(v)))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

// Invalidate removes key from the store.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// GetOrFetch returns the cached value for key or calls fetch to produce it.
// The boolean reports a cache hit. Callers waiting on a shared fetch give up
// when their own ctx is done; the fetch itself keeps running for the others.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	if v, ok := lookup[T](ctx, c, key); ok {
		return v, true, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)

		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(v); err != nil {
			c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		} else if err := c.store.Set(fctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, false, fmt.Errorf("cache key %q holds %T", key, res.Val)
		}
		return v, false, nil
	case <-ctx.Done():
		return zero, false, context.Cause(ctx)
	}
}

func lookup[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var v T

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return v, false
	}
	if !ok {
		return v, false
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}
