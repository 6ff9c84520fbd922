package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around Redis calls.
type BreakerConfig struct {
	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// Timeout is the period of the open state.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// RedisCache implements Cache backed by Redis. All keys share a namespace
// prefix so the service can coexist with other users of the instance.
type RedisCache struct {
	client    *redis.Client
	namespace string
	breaker   *gobreaker.CircuitBreaker[[]byte]
	logger    *slog.Logger
}

// NewRedisCache creates a Redis-backed cache from a connection URL.
func NewRedisCache(url, namespace string, cfg BreakerConfig, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisCache{
		client:    redis.NewClient(opts),
		namespace: namespace,
		breaker:   newBreaker(cfg, logger),
		logger:    logger,
	}, nil
}

// newBreaker builds the circuit breaker guarding Redis calls. A cache miss
// is a normal outcome, not a backend failure, and must never trip it.
func newBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

func (c *RedisCache) key(key string) string {
	return c.namespace + ":" + key
}

// Get retrieves a value by key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		val, err := c.client.Get(ctx, c.key(key)).Bytes()
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return val, err
	})
}

// Set stores a value with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, c.key(key), value, ttl).Err()
	})
	return err
}

// DeletePrefix removes all keys matching the given prefix.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		pattern := c.key(prefix) + "*"
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return nil, err
			}
		}
		return nil, iter.Err()
	})
	return err
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
