package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(clock *fakeClock) *MemoryLimiter {
	return NewMemoryLimiter(Config{MaxAttempts: 5, Window: 15 * time.Minute}, WithClock(clock.Now), WithoutSweeper())
}

func TestKey_NormalisesEmail(t *testing.T) {
	assert.Equal(t, Key("a@b.com", "10.0.0.1"), Key("  A@B.COM ", "10.0.0.1"))
	assert.NotEqual(t, Key("a@b.com", "10.0.0.1"), Key("a@b.com", "10.0.0.2"))
}

func TestMemoryLimiter_SixthAttemptDenied(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()
	key := Key("a@b.com", "127.0.0.1")

	for i := 1; i <= 5; i++ {
		d, err := l.Check(ctx, key)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i)
		assert.Equal(t, i, d.Count)
		assert.Equal(t, 5-i, d.Remaining)
		clock.Advance(time.Minute)
	}

	d, err := l.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 10*time.Minute, d.RetryAfter)

	// denial does not keep incrementing
	d, _ = l.Check(ctx, key)
	assert.False(t, d.Allowed)
	assert.Equal(t, 5, d.Count)
}

func TestMemoryLimiter_WindowResetsAfterFirstAttempt(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()
	key := Key("a@b.com", "127.0.0.1")

	first := clock.Now()
	for i := 0; i < 5; i++ {
		_, err := l.Check(ctx, key)
		require.NoError(t, err)
	}

	clock.Advance(16 * time.Minute)

	d, err := l.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, first.Add(16*time.Minute), d.WindowStart)
}

func TestMemoryLimiter_WindowAnchoredOnFirstAttempt(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()
	key := "k"

	// failures keep arriving but the window still ends 15m after the first one
	for i := 0; i < 4; i++ {
		_, _ = l.Check(ctx, key)
		clock.Advance(4 * time.Minute)
	}
	// t = 16m since first attempt
	d, _ := l.Check(ctx, key)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestMemoryLimiter_ExactWindowBoundaryStillCounts(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = l.Check(ctx, "k")
	}
	clock.Advance(15 * time.Minute)

	d, _ := l.Check(ctx, "k")
	assert.False(t, d.Allowed)
}

func TestMemoryLimiter_ClearStartsFreshWindow(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()
	key := Key("a@b.com", "127.0.0.1")

	for i := 0; i < 4; i++ {
		_, _ = l.Check(ctx, key)
	}
	require.NoError(t, l.Clear(ctx, key))
	assert.Equal(t, 0, l.Len())

	clock.Advance(time.Minute)
	d, err := l.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, clock.Now(), d.WindowStart)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = l.Check(ctx, Key("a@b.com", "1.1.1.1"))
	}

	d, _ := l.Check(ctx, Key("a@b.com", "2.2.2.2"))
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, Key("c@d.com", "1.1.1.1"))
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	_, _ = l.Check(ctx, "old")
	clock.Advance(10 * time.Minute)
	_, _ = l.Check(ctx, "new")
	clock.Advance(6 * time.Minute)

	l.Sweep()
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_ConcurrentChecksNeverExceedMax(t *testing.T) {
	l := NewMemoryLimiter(Config{MaxAttempts: 5, Window: time.Hour}, WithoutSweeper())
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := l.Check(ctx, "shared")
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestMemoryLimiter_CloseIsIdempotent(t *testing.T) {
	l := NewMemoryLimiter(Config{CleanupInterval: 10 * time.Millisecond})
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, 5, c.MaxAttempts)
	assert.Equal(t, 15*time.Minute, c.Window)
	assert.Equal(t, "ratelimit:login:", c.KeyPrefix)
}
