// Package ratelimit throttles login attempts per (email, source address) pair
// using a fixed window anchored on the first attempt.
package ratelimit

import (
	"context"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
)

// Decision is the outcome of one Check
type Decision struct {
	Allowed bool
	// Count is the number of attempts recorded in the current window
	Count       int
	Remaining   int
	WindowStart time.Time
	// RetryAfter is set on denial: time until the window resets
	RetryAfter time.Duration
}

// Limiter records attempts and decides whether another is allowed
type Limiter interface {
	// Check records an attempt for key and reports whether it may proceed
	Check(ctx context.Context, key string) (Decision, error)
	// Clear forgets key, typically after a successful login
	Clear(ctx context.Context, key string) error
}

// Config holds limiter settings
type Config struct {
	MaxAttempts     int
	Window          time.Duration
	CleanupInterval time.Duration
	KeyPrefix       string
}

// DefaultConfig allows 5 attempts per 15 minutes
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     5,
		Window:          15 * time.Minute,
		CleanupInterval: time.Minute,
		KeyPrefix:       "ratelimit:login:",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = d.KeyPrefix
	}
	return c
}

// Key builds the limiter key for a login attempt
func Key(email, sourceAddr string) string {
	return domain.NormalizeEmail(email) + "|" + sourceAddr
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
