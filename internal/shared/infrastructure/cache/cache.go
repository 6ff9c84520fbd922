// Package cache provides a small key-value cache used to memoize statistics
// responses per user. The Redis implementation sits behind a circuit breaker
// so a cache outage degrades to recomputation instead of failing requests.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface consumed by the HTTP adapter.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. A zero TTL stores without expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes all keys matching the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Noop is a Cache that stores nothing. Used when no Redis is configured.
type Noop struct{}

// NewNoop creates a no-op cache.
func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (n *Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *Noop) DeletePrefix(ctx context.Context, prefix string) error {
	return nil
}
