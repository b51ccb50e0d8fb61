// Package optcache keeps filter option lists (requestors, result names) so
// every page render does not hit the API server.
package optcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Loader func(ctx context.Context) ([]string, error)

type Cache struct {
	cache *expirable.LRU[string, []string]
	group singleflight.Group
}

func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 64
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{cache: expirable.NewLRU[string, []string](size, nil, ttl)}
}

// Get returns the cached list for key, loading it once when missing even if
// several callers ask at the same time.
func (c *Cache) Get(ctx context.Context, key string, load Loader) ([]string, error) {
	if cached, ok := c.cache.Get(key); ok {
		logutil.GetLogger(ctx).Debug("option cache hit", zap.String("key", key))
		return clone(cached), nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, clone(items))
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

// Refresh reloads key unconditionally; the old entry stays in place when the
// load fails.
func (c *Cache) Refresh(ctx context.Context, key string, load Loader) error {
	items, err := load(ctx)
	if err != nil {
		return err
	}
	c.cache.Add(key, clone(items))
	return nil
}

func (c *Cache) Purge() {
	c.cache.Purge()
}

// Bind returns a loader that reads through the cache.
func (c *Cache) Bind(key string, load Loader) Loader {
	return func(ctx context.Context) ([]string, error) {
		return c.Get(ctx, key, load)
	}
}

func clone(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
