// Package timeouts holds the request timeouts PostDesk handlers use.
//
//   - Ping: health checks
//   - Short: single-document reads, cache round trips
//   - Medium: list queries, writes and the dashboard fetch cycle
//
// Startup overrides the defaults from configuration.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
)

// Config is one set of timeouts. Zero fields mean "keep the current value"
// when passed to Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
}

var defaults = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium}

var (
	mu      sync.RWMutex
	current = defaults
)

// Current returns the timeouts in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Medium() time.Duration { return Current().Medium }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = merge(current, cfg)
}

// Reset restores the defaults. Tests call it in cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults
}

func merge(base, over Config) Config {
	if over.Ping > 0 {
		base.Ping = over.Ping
	}
	if over.Short > 0 {
		base.Short = over.Short
	}
	if over.Medium > 0 {
		base.Medium = over.Medium
	}
	return base
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline, not the caller, ended the context.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "posts dashboard fetch")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
