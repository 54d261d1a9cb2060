package ratelimit

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	pkgredis "github.com/Amen1235f/ecommerce-cms/pkg/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner returns a canned script result
type stubRunner struct {
	val     interface{}
	err     error
	gotKeys []string
	gotArgs []interface{}
	deleted []string
}

func (s *stubRunner) EvalScript(ctx context.Context, name, script string, keys []string, args ...interface{}) *redis.Cmd {
	s.gotKeys = keys
	s.gotArgs = args
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
	} else {
		cmd.SetVal(s.val)
	}
	return cmd
}

func (s *stubRunner) Del(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return s.err
}

func TestRedisLimiter_DecodesDenial(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-5 * time.Minute)

	stub := &stubRunner{val: []interface{}{int64(0), int64(5), start.UnixMilli()}}
	l := NewRedisLimiter(stub, Config{MaxAttempts: 5, Window: 15 * time.Minute})
	l.now = func() time.Time { return now }

	d, err := l.Check(context.Background(), "a@b.com|1.1.1.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 10*time.Minute, d.RetryAfter)

	assert.Equal(t, []string{"ratelimit:login:a@b.com|1.1.1.1"}, stub.gotKeys)
	assert.Equal(t, []interface{}{now.UnixMilli(), int64(900000), 5}, stub.gotArgs)
}

func TestRedisLimiter_DecodesStringValues(t *testing.T) {
	stub := &stubRunner{val: []interface{}{"1", "2", "1700000000000"}}
	l := NewRedisLimiter(stub, Config{MaxAttempts: 5, Window: time.Minute})

	d, err := l.Check(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, 3, d.Remaining)
}

func TestRedisLimiter_ErrorsPropagate(t *testing.T) {
	stub := &stubRunner{err: errors.New("connection refused")}
	l := NewRedisLimiter(stub, DefaultConfig())

	_, err := l.Check(context.Background(), "k")
	assert.ErrorContains(t, err, "connection refused")

	err = l.Clear(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisLimiter_ShortResult(t *testing.T) {
	stub := &stubRunner{val: []interface{}{int64(1)}}
	_, err := NewRedisLimiter(stub, DefaultConfig()).Check(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisLimiter_ClearDeletesPrefixedKey(t *testing.T) {
	stub := &stubRunner{}
	require.NoError(t, NewRedisLimiter(stub, DefaultConfig()).Clear(context.Background(), "k"))
	assert.Equal(t, []string{"ratelimit:login:k"}, stub.deleted)
}

func TestRedisLimiter_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := pkgredis.DefaultConfig()
	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	ctx := context.Background()
	client, err := pkgredis.NewClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	now := time.Now()
	l := NewRedisLimiter(client, Config{MaxAttempts: 5, Window: 15 * time.Minute, KeyPrefix: "test:ratelimit:"})
	l.now = func() time.Time { return now }
	key := Key(uuid.New().String()+"@b.com", "127.0.0.1")
	defer l.Clear(ctx, key)

	for i := 1; i <= 5; i++ {
		d, err := l.Check(ctx, key)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, i, d.Count)
	}

	d, err := l.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	now = now.Add(16 * time.Minute)
	d, err = l.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)

	require.NoError(t, l.Clear(ctx, key))
	d, err = l.Check(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count)
}
