// internal/cache/cache.go

// Package cache holds the per-process stats cache.
//
// Concurrent misses for the same key each run their own fetch; the last one to
// finish wins. The contribution-detail cache in internal/details shares
// in-flight fetches instead and must not be built on this type.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	custom_errors "github-activity/internal/errors"
)

// Kind separates the key spaces held by one Cache.
type Kind string

const (
	KindProfile       Kind = "profile"
	KindContributions Kind = "contributions"
)

// Forever keeps an entry for the rest of the process lifetime.
const Forever time.Duration = 0

// Key identifies a single cached value.
type Key struct {
	Kind     Kind
	Username string
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.Username
}

// Cache is a TTL store with lazy expiry on read. It has no size bound and runs
// no background janitor.
type Cache struct {
	items *gocache.Cache
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the stored value, or ErrCacheMiss if it is absent or expired.
// Expired entries are removed.
func (c *Cache) Get(key Key) (any, error) {
	v, ok := c.items.Get(key.String())
	if !ok {
		c.items.Delete(key.String())
		return nil, custom_errors.ErrCacheMiss
	}
	return v, nil
}

// Set stores value under key. A ttl of Forever never expires.
func (c *Cache) Set(key Key, value any, ttl time.Duration) {
	if ttl == Forever {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key.String(), value, ttl)
}

// Delete drops key if present.
func (c *Cache) Delete(key Key) {
	c.items.Delete(key.String())
}

// Len reports the number of stored entries, including ones that have expired
// but not yet been read.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Lookup returns the cached value for key if it is present and holds a T.
func Lookup[T any](c *Cache, key Key) (T, bool) {
	var zero T
	v, err := c.Get(key)
	if err != nil {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// GetOrFetch returns the cached value for key, calling fetch on a miss and
// storing its result. Errors from fetch are returned as-is and never cached.
// No lock is held while fetch runs.
func GetOrFetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := Lookup[T](c, key); ok {
		return v, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
