// Package timeouts provides centralized timeout values for handler operations.
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultProvider = 10 * time.Second
	DefaultLong     = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

// Configurable timeout values.
var (
	ping     = DefaultPing
	short    = DefaultShort
	provider = DefaultProvider
	long     = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple database operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Provider returns the timeout for round trips to the OAuth provider.
// A timeout here is treated like any other provider failure.
func Provider() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return provider
}

// Long returns the timeout for complex operations.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Provider time.Duration
	Long     time.Duration
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Provider > 0 {
		provider = cfg.Provider
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	provider = DefaultProvider
	long = DefaultLong
}
