package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter keeps attempts in process memory. State is lost on restart
// and not shared between replicas.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	stop     chan struct{}
	stopOnce sync.Once
}

// Option customises a MemoryLimiter
type Option func(*MemoryLimiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

// WithoutSweeper disables the background cleanup goroutine
func WithoutSweeper() Option {
	return func(l *MemoryLimiter) {
		l.config.CleanupInterval = 0
	}
}

// NewMemoryLimiter creates a limiter and starts its sweeper
func NewMemoryLimiter(config Config, opts ...Option) *MemoryLimiter {
	l := &MemoryLimiter{
		config:  config.withDefaults(),
		now:     time.Now,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.config.CleanupInterval > 0 {
		go l.cleanup()
	}
	return l
}

// Check implements Limiter
func (l *MemoryLimiter) Check(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) > l.config.Window {
		e = &entry{count: 1, windowStart: now}
		l.entries[key] = e
		return l.decision(true, e, now), nil
	}

	if e.count >= l.config.MaxAttempts {
		return l.decision(false, e, now), nil
	}

	e.count++
	return l.decision(true, e, now), nil
}

func (l *MemoryLimiter) decision(allowed bool, e *entry, now time.Time) Decision {
	d := Decision{
		Allowed:     allowed,
		Count:       e.count,
		Remaining:   remaining(l.config.MaxAttempts, e.count),
		WindowStart: e.windowStart,
	}
	if !allowed {
		d.RetryAfter = e.windowStart.Add(l.config.Window).Sub(now)
	}
	return d
}

// Clear implements Limiter
func (l *MemoryLimiter) Clear(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
	return nil
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep drops entries whose window has passed
func (l *MemoryLimiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if now.Sub(e.windowStart) > l.config.Window {
			delete(l.entries, key)
		}
	}
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Close stops the sweeper; safe to call more than once
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	return nil
}
