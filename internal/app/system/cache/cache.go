// Package cache is the byte cache in front of the post list.
//
// The Redis implementation runs every call through a circuit breaker: when
// Redis misbehaves the breaker opens and callers go straight to MongoDB
// until it recovers. A cache problem never fails a request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value and true on a hit, false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ErrUnavailable wraps calls rejected while the breaker is open.
var ErrUnavailable = errors.New("cache unavailable")

// Redis is a Cache backed by a Redis client.
type Redis struct {
	client redis.Cmdable
	prefix string
	cb     *gobreaker.CircuitBreaker
	log    *zap.Logger
}

// BreakerSettings controls when the Redis breaker trips.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker. Default 3.
	ConsecutiveFailures uint32
	// OpenFor is how long the breaker stays open. Default 30s.
	OpenFor time.Duration
}

// NewRedis wraps client. prefix is prepended to every key.
func NewRedis(client redis.Cmdable, prefix string, bs BreakerSettings, logger *zap.Logger) *Redis {
	if bs.ConsecutiveFailures == 0 {
		bs.ConsecutiveFailures = 3
	}
	if bs.OpenFor <= 0 {
		bs.OpenFor = 30 * time.Second
	}

	st := gobreaker.Settings{
		Name:     "redis-cache",
		Interval: time.Minute,
		Timeout:  bs.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Redis{
		client: client,
		prefix: prefix,
		cb:     gobreaker.NewCircuitBreaker(st),
		log:    logger,
	}
}

// isSuccessful keeps a caller's own cancellation or deadline from counting
// against Redis.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Redis) key(k string) string { return c.prefix + k }

// Get implements Cache. A Redis miss is not a breaker failure.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.cb.Execute(func() (interface{}, error) {
		b, err := c.client.Get(ctx, c.key(key)).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, false, wrap("get", err)
	}
	b, _ := v.([]byte)
	if b == nil {
		return nil, false, nil
	}
	return b, true, nil
}

// Set implements Cache.
func (c *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, c.key(key), string(val), ttl).Err()
	})
	return wrap("set", err)
}

// Delete implements Cache.
func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, full...).Err()
	})
	return wrap("delete", err)
}

// State returns the breaker state for health reporting.
func (c *Redis) State() string {
	return c.cb.State().String()
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("cache %s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("cache %s: %w", op, err)
}

// Noop is a Cache that stores nothing. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
