package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkScriptName = "login_rate_limit_check"

// checkScript applies the fixed-window rule atomically.
// Returns {allowed, count, window_start_ms}.
const checkScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "count", "start")
local count = tonumber(data[1])
local start = tonumber(data[2])

if count == nil or start == nil or now - start > window then
    redis.call("HSET", key, "count", 1, "start", now)
    redis.call("PEXPIRE", key, window * 2)
    return {1, 1, now}
end

if count >= max then
    return {0, count, start}
end

count = redis.call("HINCRBY", key, "count", 1)
return {1, count, start}
`

// ScriptRunner is the subset of the Redis client the limiter needs
type ScriptRunner interface {
	EvalScript(ctx context.Context, name, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) error
}

// RedisLimiter shares attempt windows across API replicas
type RedisLimiter struct {
	client ScriptRunner
	config Config
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client ScriptRunner, config Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		config: config.withDefaults(),
		now:    time.Now,
	}
}

// Check implements Limiter
func (l *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	now := l.now()

	result := l.client.EvalScript(ctx, checkScriptName, checkScript,
		[]string{l.config.KeyPrefix + key},
		now.UnixMilli(),
		l.config.Window.Milliseconds(),
		l.config.MaxAttempts,
	)
	if err := result.Err(); err != nil {
		return Decision{}, fmt.Errorf("rate limit script failed: %w", err)
	}

	values, err := result.Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script result: %w", err)
	}
	if len(values) < 3 {
		return Decision{}, fmt.Errorf("unexpected result length: %d", len(values))
	}

	allowed := toInt64(values[0]) == 1
	count := int(toInt64(values[1]))
	start := time.UnixMilli(toInt64(values[2]))

	d := Decision{
		Allowed:     allowed,
		Count:       count,
		Remaining:   remaining(l.config.MaxAttempts, count),
		WindowStart: start,
	}
	if !allowed {
		d.RetryAfter = start.Add(l.config.Window).Sub(now)
	}
	return d, nil
}

// Clear implements Limiter
func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.config.KeyPrefix+key); err != nil {
		return fmt.Errorf("rate limit clear failed: %w", err)
	}
	return nil
}

// toInt64 converts the loosely typed values Redis may return
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}
